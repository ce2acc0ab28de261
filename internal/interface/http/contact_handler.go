package handlers

import (
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	contactapp "github.com/oksasatya/agenda-api/internal/application"
	"github.com/oksasatya/agenda-api/pkg/response"
	"github.com/oksasatya/agenda-api/pkg/validation"
)

type ContactHandler struct {
	Svc    *contactapp.Service
	Logger *logrus.Logger
}

func NewContactHandler(svc *contactapp.Service, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.Svc.FindAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewContactDTOs(contacts))
}

func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	contact, err := h.Svc.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewContactDTO(contact))
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req ContactDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusUnprocessableEntity, "invalid contact data", validation.ToDetails(err))
		return
	}
	contact, err := h.Svc.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Location", path.Join(c.Request.URL.Path, strconv.FormatInt(contact.ID, 10)))
	c.JSON(http.StatusCreated, NewContactDTO(contact))
}

func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ContactDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusUnprocessableEntity, "invalid contact data", validation.ToDetails(err))
		return
	}
	contact, err := h.Svc.Update(c.Request.Context(), id, req.ToEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewContactDTO(contact))
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search looks contacts up by free text: GET /agenda/search?q=ann&size=10
func (h *ContactHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Abort(c, http.StatusUnprocessableEntity, "invalid search", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	contacts, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewContactDTOs(contacts))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Abort(c, http.StatusBadRequest, "invalid id", map[string]string{"id": "must be an integer"})
		return 0, false
	}
	return id, true
}

func (h *ContactHandler) fail(c *gin.Context, err error) {
	var verr *contactapp.ValidationError
	switch {
	case errors.Is(err, contactapp.ErrContactNotFound):
		response.Abort(c, http.StatusNotFound, "contact not found", nil)
	case errors.As(err, &verr):
		response.Abort(c, http.StatusUnprocessableEntity, "invalid contact data", verr.Fields)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"route":      c.FullPath(),
			}).Error("contact request failed")
		}
		response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
