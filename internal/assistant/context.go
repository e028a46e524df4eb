package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ayeshastore/ayesha/internal/orders"
	"github.com/ayeshastore/ayesha/internal/session"
)

// historyWindow is how many recent exchanges are shown to the model.
const historyWindow = 3

// orderRef accepts "ORD" followed by one or more ASCII digits, anywhere in the
// uppercased text. There is no word boundary: "WORD12" yields "ORD12".
var orderRef = regexp.MustCompile(`ORD[0-9]+`)

// DetectOrderReference returns the first order reference in text, case-insensitively.
func DetectOrderReference(text string) (string, bool) {
	m := orderRef.FindString(strings.ToUpper(text))
	if m == "" {
		return "", false
	}
	return m, true
}

// RenderContext assembles the knowledge, order and history sections for sess.
// A nil session yields only the store knowledge. An order id that does not
// resolve in catalog is left out silently.
func RenderContext(sess *session.Session, catalog *orders.Catalog) string {
	sections := []string{StoreKnowledge}
	if sess == nil {
		return StoreKnowledge
	}

	if sess.OrderID != "" {
		if o, ok := catalog.Lookup(sess.OrderID); ok {
			sections = append(sections, fmt.Sprintf(
				"Current Order: %s\nStatus: %s\nItems: %s\nTotal: %s",
				o.ID, o.Status, strings.Join(o.Items, ", "), o.Total,
			))
		}
	}

	// Every history line is its own section, so lines are blank-line separated.
	if recent := sess.Recent(historyWindow); len(recent) > 0 {
		sections = append(sections, "Recent Messages:")
		for _, ex := range recent {
			sections = append(sections, "Customer: "+ex.Customer, "Assistant: "+ex.Assistant)
		}
	}

	return strings.Join(sections, "\n\n")
}
