package ling

import (
	"slices"
	"strconv"

	"github.com/signadot/taxmap/relmap"
)

// Concept is one tokenized, lemmatized unit of a node label. ID is the
// position of the concept within its label.
type Concept struct {
	ID     int
	Token  string
	Lemma  string
	Senses []Sense

	slot relmap.Slot
}

func NewConcept(id int, token, lemma string) *Concept {
	return &Concept{ID: id, Token: token, Lemma: lemma, slot: relmap.NoSlot}
}

// AddSense appends s unless it is already present.
func (c *Concept) AddSense(s Sense) bool {
	if slices.Contains(c.Senses, s) {
		return false
	}
	c.Senses = append(c.Senses, s)
	return true
}

func (c *Concept) Slot() relmap.Slot     { return c.slot }
func (c *Concept) SetSlot(s relmap.Slot) { c.slot = s }

func (c *Concept) String() string {
	return c.Lemma + "@" + strconv.Itoa(c.ID)
}

// Atom names the propositional variable of concept id on node nodeID.
func Atom(nodeID string, id int) string {
	return nodeID + "." + strconv.Itoa(id)
}
