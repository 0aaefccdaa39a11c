package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// ErrUndetectedBank is returned when no configured institution matches a
// document's content.
var ErrUndetectedBank = errors.New("could not auto-detect bank from statement content")

// Source supplies a decoded document. Decoding errors are reported through
// the result status, not as Go errors.
type Source interface {
	Document() (*models.Document, error)
}

// Parse interprets an already decoded document for the given institution.
// An empty result is not an error; an unknown institution is.
func Parse(bank string, doc *models.Document, source string, opts Options) (*models.Result, error) {
	v, err := Lookup(bank)
	if err != nil {
		return nil, err
	}
	return v.Parse(doc, source, opts), nil
}

// Run decodes src and interprets it. A decoding failure yields a result
// with StatusFailed and the reason, so one bad file never aborts a batch.
func Run(bank string, src Source, source string, opts Options) (*models.Result, error) {
	v, err := Lookup(bank)
	if err != nil {
		return nil, err
	}
	doc, err := decode(src)
	if err != nil {
		return failedResult(v.Bank, source, err.Error()), nil
	}
	return v.Parse(doc, source, opts), nil
}

// RunDetected decodes src and interprets it for the institution detected
// from its content. A document no institution claims fails with the
// ErrUndetectedBank message as its reason.
func RunDetected(src Source, source string, opts Options) *models.Result {
	doc, err := decode(src)
	if err != nil {
		return failedResult("", source, err.Error())
	}
	bank, err := AutoDetect(doc)
	if err != nil {
		return failedResult("", source, err.Error())
	}
	return registry.byKey[lookupKey(string(bank))].Parse(doc, source, opts)
}

func decode(src Source) (doc *models.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode: %v", r)
		}
	}()
	if src == nil {
		return nil, errors.New("decode: no source")
	}
	doc, err = src.Document()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// AutoDetect tries to identify the bank from the document content.
func AutoDetect(doc *models.Document) (models.BankType, error) {
	if doc == nil {
		return "", ErrUndetectedBank
	}
	text := doc.FullText()
	for _, v := range registry.ordered {
		if containsAny(text, v.markers) {
			return v.Bank, nil
		}
	}
	return "", ErrUndetectedBank
}

func containsAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if needle != "" && strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
