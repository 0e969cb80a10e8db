// Package fuse merges the turn's extracted entities with session context.
// The rules are few and strict: an explicit product always wins and
// refreshes context, a generic term asks for clarification instead of
// guessing, and a product-bearing turn with no product of its own borrows
// the session's last mentioned product.
package fuse

import (
	"butik-nlu/internal/models"
)

// Decision is the fusion outcome for one turn.
type Decision struct {
	Product   string
	ProductID string
	Size      string

	// NeedsClarification is set only for the ambiguous generic-term case.
	NeedsClarification bool
	GenericTerm        string
	Options            []string

	// UpdateContext tells the orchestrator to commit Product/ProductID as
	// the session's last mentioned product.
	UpdateContext bool
	// CarriedOver marks that Product came from session context, not from
	// this turn's utterance.
	CarriedOver bool
}

// Resolve applies the fusion rules. The session is read-only here; the
// orchestrator owns all writes.
func Resolve(entities models.ExtractedEntities, intent models.IntentLabel, sess *models.Session) Decision {
	d := Decision{Size: entities.Size}

	switch {
	case entities.Product != "" && !entities.IsGeneric:
		// Rule 1: an explicit product wins outright.
		d.Product = entities.Product
		d.ProductID = entities.ProductID
		d.UpdateContext = true

	case entities.IsGeneric:
		// Rule 2: a generic category term is ambiguous. Ask instead of
		// guessing, and leave session context untouched.
		d.NeedsClarification = true
		d.GenericTerm = entities.Product
		d.Options = append(d.Options, entities.GenericOptions...)

	case intent.IsProductBearing() && sess != nil && sess.LastMentionedProduct != "":
		// Rule 3: the turn talks about a product without naming one;
		// borrow the session's subject.
		d.Product = sess.LastMentionedProduct
		d.ProductID = sess.LastMentionedProductID
		d.CarriedOver = true

		// Rule 4: nothing to resolve. Non-product intents never borrow
		// context, a greeting after a product question stays a greeting.
	}
	return d
}
