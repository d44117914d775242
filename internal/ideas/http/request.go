package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgMissingCreate = "Missing required fields: title, activity_type, or est_price_per_person."
	msgMissingUpdate = "Missing required fields for update."
	msgInvalidType   = "Invalid activity_type: must be STAY_IN or GO_OUT."
	msgInvalidBody   = "Invalid JSON body."
	msgInvalidID     = "Invalid idea ID format."
	msgInvalidFilter = "Invalid public filter: must be true or false."
	msgNotFound      = "Idea not found."
)

// decimalText keeps a JSON string or number literal as the text it was sent as so
// prices and coordinates never pass through float64. null and "" are absent.
type decimalText struct {
	text string
	set  bool
}

func (d *decimalText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = decimalText{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		*d = decimalText{text: s, set: s != ""}
		return nil
	}
	// Anything else is kept verbatim; domain parsing rejects non-numbers.
	*d = decimalText{text: string(b), set: true}
	return nil
}

func (d decimalText) ptr() *string {
	if !d.set {
		return nil
	}
	s := d.text
	return &s
}

type createIdeaRequest struct {
	Title             string      `json:"title" binding:"required"`
	ActivityType      string      `json:"activity_type" binding:"required,oneof=STAY_IN GO_OUT"`
	EstPricePerPerson decimalText `json:"est_price_per_person"`
	CreatorUsername   *string     `json:"creator_username"`
}

func (r *createIdeaRequest) missing() bool {
	return strings.TrimSpace(r.Title) == "" || !r.EstPricePerPerson.set
}

type updateIdeaRequest struct {
	Title             string      `json:"title" binding:"required"`
	ActivityType      string      `json:"activity_type" binding:"required,oneof=STAY_IN GO_OUT"`
	EstPricePerPerson decimalText `json:"est_price_per_person"`
	Latitude          decimalText `json:"latitude"`
	Longitude         decimalText `json:"longitude"`
}

func (r *updateIdeaRequest) missing() bool {
	return strings.TrimSpace(r.Title) == "" || !r.EstPricePerPerson.set
}

// bindMessage turns a ShouldBindJSON error into the client message. Missing
// fields win over an invalid activity_type.
func bindMessage(err error, missingMsg string, missing bool) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalidBody
	}
	if missing {
		return missingMsg
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return missingMsg
		}
	}
	return msgInvalidType
}
