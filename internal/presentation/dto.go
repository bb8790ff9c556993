package presentation

import (
	"github.com/zjrosen/rawfmt/internal/markup"
)

// TokenDTO represents one token for presentation
type TokenDTO struct {
	Start int           `json:"start"`
	End   int           `json:"end"`
	Kind  string        `json:"kind"`
	Text  string        `json:"text"`
	Value markup.Entity `json:"value"`
	From  *PositionDTO  `json:"from,omitempty"`
	To    *PositionDTO  `json:"to,omitempty"`
}

// PositionDTO is a 1-based line/column location.
type PositionDTO struct {
	Line          int `json:"line"`
	Column        int `json:"column"`
	DisplayColumn int `json:"display_column"`
}

// FromPosition converts a markup position to a DTO.
func FromPosition(p markup.Position) *PositionDTO {
	return &PositionDTO{Line: p.Line, Column: p.Column, DisplayColumn: p.DisplayColumn}
}

// FromTokens converts tokens of text to DTOs. Positions are included when
// withPositions is set.
func FromTokens(text string, tokens []markup.Token, withPositions bool) []TokenDTO {
	dtos := make([]TokenDTO, 0, len(tokens))
	for _, tok := range tokens {
		dto := TokenDTO{
			Start: tok.Start,
			End:   tok.End,
			Kind:  tok.Kind().String(),
			Text:  text[tok.Start:tok.End],
			Value: tok.Value,
		}
		if withPositions {
			from, to := tok.Span(text)
			dto.From = FromPosition(from)
			dto.To = FromPosition(to)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

// StageDTO is the result of one round trip performed by check.
type StageDTO struct {
	Name     string `json:"name"`
	Lossless bool   `json:"lossless"`
	Output   string `json:"output,omitempty"` // only set on mismatch
	Diff     string `json:"diff,omitempty"`
}

// CheckDTO summarizes a lossless check of one input.
type CheckDTO struct {
	Input    string     `json:"input"`
	Tokens   int        `json:"tokens"`
	Nodes    int        `json:"nodes"`
	Lossless bool       `json:"lossless"`
	Stages   []StageDTO `json:"stages"`
}
