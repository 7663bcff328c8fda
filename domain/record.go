package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RecordType string

const (
	RecordSymptomCheck RecordType = "symptom_check"
	RecordPrescription RecordType = "prescription"
	RecordLabResult    RecordType = "lab_result"
	RecordConsultation RecordType = "consultation"
)

func (t RecordType) Valid() bool {
	switch t {
	case RecordSymptomCheck, RecordPrescription, RecordLabResult, RecordConsultation:
		return true
	}
	return false
}

// RecordPayload is the typed data attached to a health record. Each record
// type has exactly one payload shape.
type RecordPayload interface {
	RecordType() RecordType
}

type SymptomCheckPayload struct {
	CheckID  *uuid.UUID `json:"check_id,omitempty"`
	Symptoms []string   `json:"symptoms,omitempty" validate:"omitempty,dive,required"`
}

type PrescriptionPayload struct {
	Medication string `json:"medication" validate:"required"`
	Dosage     string `json:"dosage" validate:"required"`
	Frequency  string `json:"frequency,omitempty"`
	Prescriber string `json:"prescriber,omitempty"`
}

type LabResultPayload struct {
	Test           string `json:"test" validate:"required"`
	Value          string `json:"value" validate:"required"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"reference_range,omitempty"`
	TakenOn        string `json:"taken_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type ConsultationPayload struct {
	DoctorName string `json:"doctor_name" validate:"required"`
	Summary    string `json:"summary" validate:"required"`
	FollowUp   string `json:"follow_up,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (SymptomCheckPayload) RecordType() RecordType { return RecordSymptomCheck }
func (PrescriptionPayload) RecordType() RecordType { return RecordPrescription }
func (LabResultPayload) RecordType() RecordType    { return RecordLabResult }
func (ConsultationPayload) RecordType() RecordType { return RecordConsultation }

// DecodePayload unmarshals raw into the payload shape registered for t.
// An empty document yields a nil payload.
func DecodePayload(t RecordType, raw []byte) (RecordPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var p RecordPayload
	switch t {
	case RecordSymptomCheck:
		p = &SymptomCheckPayload{}
	case RecordPrescription:
		p = &PrescriptionPayload{}
	case RecordLabResult:
		p = &LabResultPayload{}
	case RecordConsultation:
		p = &ConsultationPayload{}
	default:
		return nil, Invalid("record_type", fmt.Sprintf("unknown record type %q", t))
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, Invalid("data", err.Error())
	}
	return p, nil
}

// JSONDoc is a raw JSON column value.
type JSONDoc []byte

func (d JSONDoc) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	return string(d), nil
}

func (d *JSONDoc) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = JSONDoc("{}")
	case string:
		*d = JSONDoc(v)
	case []byte:
		*d = append(JSONDoc(nil), v...)
	default:
		return fmt.Errorf("unsupported json source %T", src)
	}
	return nil
}

func (d JSONDoc) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("{}"), nil
	}
	return d, nil
}

func (d *JSONDoc) UnmarshalJSON(b []byte) error {
	*d = append(JSONDoc(nil), b...)
	return nil
}

type HealthRecord struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	Type        RecordType `db:"record_type" json:"record_type"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	FileURL     string     `db:"file_url" json:"file_url,omitempty"`
	Data        JSONDoc    `db:"data" json:"data"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Payload decodes the record's data document for its type.
func (r HealthRecord) Payload() (RecordPayload, error) {
	return DecodePayload(r.Type, r.Data)
}
