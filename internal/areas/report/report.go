// Package report renders the human-readable console report of a seeding run.
package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/domain"
	internal_error "github.com/aria3ppp/delivery-areas-seeder/internal/areas/error"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/usecase"

	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

const (
	narrowRule = 60
	wideRule   = 80

	bodyPreview = 1000
)

// Printer writes report sections to w. The first write error is kept and
// every later write is skipped; check Err once the run is over.
type Printer struct {
	w        io.Writer
	currency string
	err      error
}

var _ usecase.Reporter = (*Printer)(nil)

func NewPrinter(w io.Writer, currency string) *Printer {
	return &Printer{w: w, currency: currency}
}

func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) Header(endpoint, apiKey string, total int) {
	p.println()
	p.println("Delivery Areas Seeder")
	p.rule("=", narrowRule)
	p.printf("API endpoint:      %s\n", endpoint)
	p.printf("API key:           %s...\n", truncate(apiKey, 8))
	p.printf("Areas to process:  %d\n", total)
}

func (p *Printer) CreateStageStarted(total int) {
	p.println()
	p.println("Adding delivery areas...")
	p.printf("Total areas to add: %d\n", total)
	p.rule("=", narrowRule)
}

func (p *Printer) CreateStarted(index, total int, seed domain.AreaSeed) {
	p.printf("\n[%d/%d] Adding: %s (Fee: %s)\n", index+1, total, seed.Name, p.fee(seed.DeliveryFee))
}

func (p *Printer) CreateFinished(_, _ int, outcome domain.CreateOutcome) {
	switch outcome.Kind {
	case domain.OutcomeCreated:
		p.printf("   OK       %s added", outcome.Seed.Name)
		if outcome.ServerID != "" {
			p.printf(" (id %s)", outcome.ServerID)
		}
		p.println()
	case domain.OutcomeAlreadyExists:
		p.printf("   SKIPPED  %s already exists: %s\n", outcome.Seed.Name, outcome.Reason)
	default:
		p.printf("   FAILED   %s\n", outcome.Seed.Name)
		p.printf("   Error: %s\n", describe(outcome.Err))
	}
}

func (p *Printer) CreateSummary(summary *domain.CreateSummary) {
	p.println()
	p.println("ADDITION SUMMARY")
	p.rule("=", narrowRule)
	p.printf("Successfully added:        %d\n", len(summary.Success))
	p.printf("Skipped (already exist):   %d\n", len(summary.Skipped))
	p.printf("Failed:                    %d\n", len(summary.Failed))

	if len(summary.Failed) == 0 {
		return
	}

	p.println()
	p.println("Failed areas:")
	for _, outcome := range summary.Failed {
		p.printf("   - %s: %s\n", outcome.Seed.Name, describe(outcome.Err))
	}
}

func (p *Printer) VerifyStageStarted() {
	p.println()
	p.rule("=", narrowRule)
	p.println()
	p.println("Verifying all delivery areas were added...")
	p.rule("=", narrowRule)
}

func (p *Printer) FetchFailed(err error) {
	p.printf("Failed to fetch delivery areas: %s\n", describe(err))
}

func (p *Printer) Verification(report *domain.VerifyReport) {
	p.printf("Total areas in database: %d\n", report.RemoteTotal)

	p.println()
	p.println("Areas found in database:")
	p.rule("-", narrowRule)
	for _, found := range report.Found {
		marker := "OK      "
		if found.FeeMismatch() {
			marker = "MISMATCH"
		}
		p.printf("   %s %s Fee: %s (%s)\n",
			marker,
			runewidth.FillRight(found.Seed.Name, 20),
			p.fee(found.Remote.DeliveryFee),
			status(found.Remote.IsActive),
		)
		if found.FeeMismatch() {
			p.printf("      Expected: %s\n", p.fee(found.Seed.DeliveryFee))
		}
	}

	if len(report.Missing) > 0 {
		p.println()
		p.println("Missing areas:")
		p.rule("-", narrowRule)
		for _, seed := range report.Missing {
			p.printf("   MISSING  %s (Expected fee: %s)\n", seed.Name, p.fee(seed.DeliveryFee))
		}
	}

	p.println()
	p.println("Verification summary:")
	p.printf("   Found: %d/%d\n", len(report.Found), report.SeedTotal)
	p.printf("   Missing: %d\n", len(report.Missing))
	if mismatched := report.Mismatched(); mismatched > 0 {
		p.printf("   Fee mismatches: %d\n", mismatched)
	}
	p.printf("   Total in DB: %d\n", report.RemoteTotal)
}

func (p *Printer) ListStageStarted() {
	p.println()
	p.println("All delivery areas in database:")
	p.rule("=", wideRule)
}

// Table renders one fixed-width row per area, in the given order.
func (p *Printer) Table(areas []domain.RemoteArea) {
	p.println()
	p.println("All Delivery Areas (sorted by fee):")
	p.rule("-", wideRule)
	p.printf("%s%s%s%s%s\n",
		runewidth.FillRight("Name", 25),
		runewidth.FillRight(fmt.Sprintf("Fee (%s)", p.currency), 12),
		runewidth.FillRight("Time (min)", 12),
		runewidth.FillRight("Status", 10),
		"ID",
	)
	p.rule("-", wideRule)

	for _, area := range areas {
		p.printf("%s%s%s%s%s\n",
			runewidth.FillRight(area.Name, 25),
			runewidth.FillRight(number(area.DeliveryFee), 12),
			runewidth.FillRight(number(area.EstimatedTime), 12),
			runewidth.FillRight(status(area.IsActive), 10),
			area.ID,
		)
	}

	p.printf("\nTotal: %d delivery areas\n", len(areas))
}

func (p *Printer) InspectStageStarted(endpoint string) {
	p.println()
	p.println("Inspecting delivery areas endpoint")
	p.rule("=", narrowRule)
	p.printf("GET %s\n", endpoint)
}

// Inspection prints one raw answer: status, headers sorted by name, a body
// preview and what the body looks like.
func (p *Printer) Inspection(index int, inspection domain.Inspection) {
	p.println()
	p.printf("[%d] %s\n", index+1, inspection.Mode)
	p.rule("-", narrowRule)

	if inspection.Err != nil {
		p.printf("   No response: %s\n", describe(inspection.Err))
		return
	}

	response := inspection.Response
	p.printf("   Response: %s\n", lo.Ternary(response.Status != "", response.Status, strconv.Itoa(response.StatusCode)))

	p.println("   Response headers:")
	names := lo.Keys(response.Header)
	slices.Sort(names)
	for _, name := range names {
		p.printf("      %s: %s\n", name, strings.Join(response.Header[name], ", "))
	}

	p.printf("   Body (%d bytes):\n", len(response.Body))
	preview := response.Body
	if len(preview) > bodyPreview {
		preview = preview[:bodyPreview]
	}
	if len(preview) > 0 {
		p.printf("%s\n", preview)
	}
	if len(response.Body) > bodyPreview {
		p.printf("   ... (truncated, total length: %d bytes)\n", len(response.Body))
	}

	switch domain.ClassifyBody(response.Body) {
	case domain.BodyJSON:
		p.println("   Valid JSON response")
	case domain.BodyHTML:
		p.println("   Looks like an HTML page (probably a tunnel or proxy error)")
	case domain.BodyEmpty:
		p.println("   Empty response")
	default:
		p.println("   Not JSON: plain text or other format")
	}
}

func (p *Printer) Final(allVerified bool) {
	p.println()
	p.rule("=", narrowRule)
	if allVerified {
		p.println("SUCCESS: All delivery areas have been added and verified!")
	} else {
		p.println("WARNING: Some areas may be missing. Check the verification results above.")
	}
	p.rule("=", narrowRule)
}

func (p *Printer) fee(value float64) string {
	return number(value) + " " + p.currency
}

func (p *Printer) rule(char string, width int) {
	p.println(strings.Repeat(char, width))
}

func (p *Printer) println(a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, a...)
}

func (p *Printer) printf(format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}

func number(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func status(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// describe prints API errors with the raw server payload.
func describe(err error) string {
	if err == nil {
		return "unknown error"
	}
	var apiErr *internal_error.APIError
	if errors.As(err, &apiErr) && len(apiErr.Payload) > 0 {
		return fmt.Sprintf("status %d: %s", apiErr.StatusCode, apiErr.Payload)
	}
	return err.Error()
}
