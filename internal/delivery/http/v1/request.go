package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// SkillList accepts either a JSON array of skills or a single comma-separated string.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = domain.ParseSkillList(list...)
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return errors.New("skills must be an array or a comma-separated string")
	}
	*s = domain.ParseSkillList(csv)
	return nil
}

// bindJSON decodes and validates the body, mapping failures to a 400 with field messages.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperror.Validation(validation.FormatValidationErrors(err))
	}
	return nil
}

// validateStruct runs the binding validator on a struct filled by hand (multipart forms).
func validateStruct(dst interface{}) error {
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return apperror.Validation(validation.FormatValidationErrors(err))
	}
	return nil
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEMultipartPOSTForm
}

// readResume loads the optional "resume" form file, reading at most maxBytes+1
// so oversize files are detected without buffering them whole.
func readResume(c *gin.Context, maxBytes int) (*domain.ResumeUpload, error) {
	header, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.BadRequest("Invalid resume upload")
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperror.BadRequest("Invalid resume upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)+1))
	if err != nil {
		return nil, apperror.BadRequest("Invalid resume upload")
	}

	return &domain.ResumeUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func parseJobID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid job ID")
	}
	return id, nil
}
