package api

import (
	"claims-triage/internal/domain/schema"
	"claims-triage/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type ClaimsHandler struct {
	service *usecase.ClaimsService
}

func NewClaimsHandler(service *usecase.ClaimsService) *ClaimsHandler {
	return &ClaimsHandler{service: service}
}

func (h *ClaimsHandler) CreateClaim(c *fiber.Ctx) error {
	req, err := schema.DecodeCreateClaimRequest(c.Body())
	if err != nil {
		return err
	}

	claim, err := h.service.CreateClaim(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(claim)
}

func (h *ClaimsHandler) ListClaims(c *fiber.Ctx) error {
	result, err := h.service.ListClaims(c.UserContext(), schema.ListClaimsRequest{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Q:      c.Query("q"),
		Limit:  c.Query("limit"),
		Cursor: c.Query("cursor"),
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *ClaimsHandler) GetClaim(c *fiber.Ctx) error {
	result, err := h.service.GetClaim(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *ClaimsHandler) GenerateAiVersion(c *fiber.Ctx) error {
	version, err := h.service.GenerateAiVersion(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(version)
}

func (h *ClaimsHandler) GetAiHistory(c *fiber.Ctx) error {
	result, err := h.service.GetAiHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
