package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_FullText(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "explicit text wins",
			doc:  Document{Text: "raw", Pages: []Page{{Number: 1, Lines: []string{"line"}}}},
			want: "raw",
		},
		{
			name: "lines are read once when rows mirror them",
			doc: Document{Pages: []Page{{
				Number: 1,
				Lines:  []string{"01/04/2024  IBG CREDIT  500.00"},
				Rows:   [][]string{{"01/04/2024", "IBG CREDIT", "500.00"}},
			}}},
			want: "01/04/2024  IBG CREDIT  500.00\n",
		},
		{
			name: "rows stand in for a page without lines",
			doc: Document{Pages: []Page{
				{Number: 1, Lines: []string{"Statement Date 31/03/2024"}},
				{Number: 2, Rows: [][]string{{"Closing Balance", "1,300.00"}}},
			}},
			want: "Statement Date 31/03/2024\nClosing Balance 1,300.00\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.FullText())
		})
	}
}
