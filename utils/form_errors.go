package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormErrors collects validation messages keyed by field or rule name.
// Templates look messages up by key, handlers test for specific keys.
type FormErrors map[string][]string

// Add appends a message under key.
func (e FormErrors) Add(key, message string) {
	e[key] = append(e[key], message)
}

// Has reports whether key carries at least one message.
func (e FormErrors) Has(key string) bool {
	return len(e[key]) > 0
}

// First returns the first message stored under key.
func (e FormErrors) First(key string) string {
	if msgs := e[key]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Valid reports whether no error was recorded.
func (e FormErrors) Valid() bool {
	return len(e) == 0
}

// Merge copies all messages of other into e.
func (e FormErrors) Merge(other FormErrors) {
	for key, msgs := range other {
		e[key] = append(e[key], msgs...)
	}
}

// BindingErrors converts a gin binding error into FormErrors keyed by the
// lower-cased struct field name.
func BindingErrors(err error) FormErrors {
	out := FormErrors{}
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out.Add(strings.ToLower(fe.Field()), fieldMessage(fe))
		}
		return out
	}

	out.Add("form", "Datele trimise nu sunt valide")
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Câmpul este obligatoriu"
	case "email":
		return "Adresa de email nu este validă"
	case "max":
		return "Valoarea este prea lungă"
	case "gte", "lte", "gt", "lt":
		return "Valoarea nu este în intervalul permis"
	case "eqfield":
		return "Valorile nu coincid"
	case "strongpassword":
		return "Parola nu este suficient de puternică"
	}
	return "Valoare invalidă"
}
