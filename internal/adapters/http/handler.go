package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/melih/healthwatch/internal/core/domain"
	"github.com/melih/healthwatch/internal/core/ports"
)

type StatusHandler struct {
	status ports.StatusReader
}

func NewStatusHandler(status ports.StatusReader) *StatusHandler {
	return &StatusHandler{status: status}
}

type ListContainersResponse struct {
	CheckedAt  *time.Time              `json:"checked_at"`
	Cycles     uint64                  `json:"cycles"`
	Containers []domain.ContainerState `json:"containers"`
}

func (h *StatusHandler) ListContainers(c *fiber.Ctx) error {
	st := h.status.Status()
	resp := ListContainersResponse{
		Cycles:     st.Cycles,
		Containers: st.Snapshot.Entries(),
	}
	if !st.CheckedAt.IsZero() {
		resp.CheckedAt = &st.CheckedAt
	}
	return c.JSON(resp)
}

func (h *StatusHandler) GetContainer(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container name is required",
		})
	}

	st := h.status.Status()
	state, ok := st.Snapshot[name]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Container '" + name + "' has not been observed",
		})
	}
	return c.JSON(domain.ContainerState{Name: name, State: state})
}

func (h *StatusHandler) Healthz(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}
