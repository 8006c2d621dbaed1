package model

import (
	"time"

	"github.com/google/uuid"
)

// Layout is a named extraction instruction the user maintains per invoice
// format. The prompt is appended to the base extraction instruction sent to
// the model.
type Layout struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLayout creates a layout with a fresh identifier.
func NewLayout(name, prompt string) Layout {
	return Layout{
		ID:        uuid.New().String(),
		Name:      name,
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
	}
}

// DefaultLayout is seeded into the store on first run.
func DefaultLayout() Layout {
	return Layout{
		ID:   "default",
		Name: "Layout Padrão",
		Prompt: "O nome do prestador está no topo. O número da nota fiscal é " +
			"rotulado como \"NFS-e\". O valor líquido é \"Valor Total dos " +
			"Serviços\". A data de emissão é \"Data e Hora de Emissão\".",
		CreatedAt: time.Time{},
	}
}
