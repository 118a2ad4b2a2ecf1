package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase"
)

const dateLayout = "2006-01-02"

// parseDecimal parses a money or quantity flag value.
func parseDecimal(flag, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return d, nil
}

// parseDate accepts YYYY-MM-DD (local time) or RFC 3339.
func parseDate(flag, value string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, value, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q (use YYYY-MM-DD or RFC 3339)", flag, value)
	}
	return t, nil
}

// parseItemSpec parses "<product-id>:<quantity>[@<price>]".
func parseItemSpec(spec string) (usecase.OrderItemInput, error) {
	var in usecase.OrderItemInput

	rest := spec
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		price, err := parseDecimal("item", rest[at+1:])
		if err != nil {
			return in, err
		}
		in.Price = &price
		rest = rest[:at]
	}

	productID, qty, ok := strings.Cut(rest, ":")
	if !ok || productID == "" {
		return in, fmt.Errorf("invalid --item %q (use <product-id>:<quantity>[@<price>])", spec)
	}
	quantity, err := parseDecimal("item", qty)
	if err != nil {
		return in, err
	}
	in.ProductID = productID
	in.Quantity = quantity
	return in, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []*domain.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tPARENT\tSTATUS\tTYPE\tPRIORITY\tASSIGNEE\tDEADLINE\tTITLE")
	for _, t := range tasks {
		parent := "-"
		if t.ParentTaskID != nil {
			parent = domain.ShortID(*t.ParentTaskID)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, parent, t.Status, t.TaskType, orDash(string(t.Priority)),
			orDash(t.Assignee), formatDate(t.Deadline), t.Title)
	}
}

// printTaskTree prints tasks with subtasks indented below their parents.
func printTaskTree(w io.Writer, tasks []*domain.Task) {
	children := make(map[string][]*domain.Task)
	for _, t := range tasks {
		if t.ParentTaskID != nil {
			children[*t.ParentTaskID] = append(children[*t.ParentTaskID], t)
		}
	}
	for _, t := range tasks {
		if t.ParentTaskID != nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "  [%s] %s (%s)\n", t.Status, t.Title, domain.ShortID(t.ID))
		for _, sub := range children[t.ID] {
			_, _ = fmt.Fprintf(w, "    └─ [%s] %s (%s)\n", sub.Status, sub.Title, domain.ShortID(sub.ID))
		}
	}
}

// printDerivation reports the result of a best-effort derivation.
// A failure is a warning: the order change itself was saved.
func printDerivation(out, errOut io.Writer, derived *usecase.DeriveTasksOutput, derivationErr error) {
	if derivationErr != nil {
		_, _ = fmt.Fprintf(errOut, "Warning: task derivation failed: %v\n", derivationErr)
		return
	}
	if derived == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "Derived %d task(s), %d already present\n", derived.Created, derived.Reused)
}
