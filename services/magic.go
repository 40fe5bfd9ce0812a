package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
	"google.golang.org/api/option"

	"sitebook/calc"
)

// DefaultGeminiModel is used when GEMINI_MODEL is unset.
const DefaultGeminiModel = "gemini-1.5-flash"

// MagicKind selects which record shape the model is asked to produce.
type MagicKind string

const (
	MagicAttendance MagicKind = "attendance"
	MagicExpense    MagicKind = "expense"
	MagicEstimate   MagicKind = "estimate"
)

// ParseMagicKind validates a kind taken from the URL.
func ParseMagicKind(s string) (MagicKind, bool) {
	switch k := MagicKind(strings.ToLower(s)); k {
	case MagicAttendance, MagicExpense, MagicEstimate:
		return k, true
	}
	return "", false
}

var magicPrompts = map[MagicKind]string{
	MagicAttendance: "You are a data entry assistant. Convert user text into a JSON array of attendance objects. " +
		"Fields allowed: worker_name, status (Present/Absent), shift (Day/Night), notes. " +
		"Constraint: Return only JSON. No markdown formatting.",
	MagicExpense: "You are a construction accountant. Extract expense details from the text into a JSON array. " +
		"Fields: item_name (string), quantity (number), unit (bags/kg/liters), " +
		"amount (total cost given by user), category (Material/Transport/Food/Other). " +
		"Constraint: Return only JSON. No markdown formatting. " +
		"IMPORTANT: Do NOT calculate totals. Only extract the numbers explicitly stated by the user.",
	MagicEstimate: "You are a Quantity Surveyor. Extract BOQ items from the input into a JSON array. " +
		"Fields: description (string), unit (bags/sqft/nos), quantity (number), rate (number, optional). " +
		"Logic: If rate is missing, set it to 0. If unit is missing, infer it (e.g., Cement -> bags). " +
		"Constraint: Return only JSON. No markdown formatting. " +
		"IMPORTANT: Do NOT calculate amounts or totals. Only extract quantity and rate.",
}

// Completer sends one system prompt and one user message to a language
// model and returns its raw text reply.
type Completer interface {
	Complete(ctx context.Context, system, input string) (string, error)
}

// GeminiCompleter is a Completer backed by the Gemini API. It holds the API
// key so the browser never sees it.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter opens a Gemini client for model.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

// Complete runs a single non-streaming generation at temperature 0.
func (g *GeminiCompleter) Complete(ctx context.Context, system, input string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(0)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := m.GenerateContent(ctx, genai.Text(input))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		break
	}
	return sb.String(), nil
}

// Close releases the underlying client.
func (g *GeminiCompleter) Close() error {
	return g.client.Close()
}

// RunMagic asks c to turn free text into records of kind and returns the
// reply with any markdown fences removed. There is no retry.
func RunMagic(ctx context.Context, c Completer, kind MagicKind, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", &calc.ValidationError{Field: "text", Message: "Type something to parse."}
	}
	prompt, ok := magicPrompts[kind]
	if !ok {
		return "", fmt.Errorf("unknown magic kind %q", kind)
	}
	raw, err := c.Complete(ctx, prompt, input)
	if err != nil {
		return "", err
	}
	return StripFences(raw), nil
}

// StripFences removes ```json and ``` markers around a model reply.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ErrInvalidReply is returned when the model's reply is not a JSON array
// of objects.
var ErrInvalidReply = errors.New("AI returned invalid JSON format")

func decodeObjects(raw string) ([]map[string]any, error) {
	raw = StripFences(raw)
	if raw == "" {
		return nil, nil
	}
	var list []map[string]any
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list, nil
	}
	// a lone object is accepted as a one-element array
	var one map[string]any
	if err := json.Unmarshal([]byte(raw), &one); err == nil {
		return []map[string]any{one}, nil
	}
	return nil, ErrInvalidReply
}

// number coerces a JSON value to float64. Strings such as "₹1,200" are
// stripped to their digits first.
func number(v any) float64 {
	if s, ok := v.(string); ok {
		return SanitizeNumber(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}

func str(v any) string {
	return strings.TrimSpace(cast.ToString(v))
}

// ParsedAttendance is one attendance line read by the model, matched to a
// worker when possible.
type ParsedAttendance struct {
	WorkerName  string      `json:"worker_name"`
	Status      calc.Status `json:"status"`
	Shift       string      `json:"shift,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	MatchedID   string      `json:"matched_worker_id,omitempty"`
	MatchedName string      `json:"matched_worker_name,omitempty"`
}

// ParseAttendanceReply decodes an attendance reply and matches names to
// workers. Unknown statuses count as Present.
func ParseAttendanceReply(raw string, workers []calc.WorkerWage) ([]ParsedAttendance, error) {
	objs, err := decodeObjects(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ParsedAttendance, 0, len(objs))
	for _, o := range objs {
		status, ok := calc.ParseStatus(str(o["status"]))
		if !ok {
			status = calc.StatusPresent
		}
		p := ParsedAttendance{
			WorkerName: str(o["worker_name"]),
			Status:     status,
			Shift:      str(o["shift"]),
			Notes:      str(o["notes"]),
		}
		if w, ok := MatchWorker(workers, p.WorkerName); ok {
			p.MatchedID, p.MatchedName = w.ID, w.Name
		}
		out = append(out, p)
	}
	return out, nil
}

// ParsedExpense is one expense line read by the model.
type ParsedExpense struct {
	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// ParseExpenseReply decodes an expense reply.
func ParseExpenseReply(raw string) ([]ParsedExpense, error) {
	objs, err := decodeObjects(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ParsedExpense, 0, len(objs))
	for _, o := range objs {
		cat := str(o["category"])
		if cat == "" {
			cat = "Material"
		}
		out = append(out, ParsedExpense{
			ItemName: str(o["item_name"]),
			Quantity: number(o["quantity"]),
			Unit:     str(o["unit"]),
			Amount:   number(o["amount"]),
			Category: NormalizeCategory(cat),
		})
	}
	return out, nil
}

// ParseEstimateReply decodes an estimate reply into import items. The model
// is told not to compute amounts; they are computed here.
func ParseEstimateReply(raw string) ([]ImportItem, error) {
	objs, err := decodeObjects(raw)
	if err != nil {
		return nil, err
	}
	out := make([]ImportItem, 0, len(objs))
	for _, o := range objs {
		item := ImportItem{
			Description: str(o["description"]),
			Unit:        str(o["unit"]),
			Quantity:    number(o["quantity"]),
			Rate:        number(o["rate"]),
			Category:    str(o["category"]),
		}
		if item.Description == "" {
			item.Description = "Unknown Item"
		}
		if item.Unit == "" {
			item.Unit = "Nos"
		}
		if item.Category == "" {
			item.Category = "General"
		}
		item.Amount = calc.ItemAmount(item.Quantity, item.Rate)
		out = append(out, item)
	}
	return out, nil
}

// CommitMagicAttendance stores every matched line for date and returns the
// number saved. Present applies the status toggle, so an existing quantity
// is kept and an empty day becomes one.
func CommitMagicAttendance(app core.App, items []ParsedAttendance, date string) (int, error) {
	saved := 0
	for _, it := range items {
		if it.MatchedID == "" {
			continue
		}
		status := it.Status
		if status == "" {
			status = calc.StatusPresent
		}
		if _, err := UpsertAttendance(app, it.MatchedID, date, calc.SetStatus(status)); err != nil {
			return saved, fmt.Errorf("attendance for %s: %w", it.MatchedName, err)
		}
		saved++
	}
	if saved == 0 {
		return 0, &calc.ValidationError{Field: "worker_name", Message: "No matched workers found to save."}
	}
	return saved, nil
}

// CommitMagicExpenses stores every line as an expense dated date in one
// transaction. The rate is inferred from amount and quantity.
func CommitMagicExpenses(app core.App, scope Scope, items []ParsedExpense, date string) (int, error) {
	if len(items) == 0 {
		return 0, &calc.ValidationError{Field: "items", Message: "Nothing to save."}
	}
	err := app.RunInTransaction(func(txApp core.App) error {
		for _, it := range items {
			desc := it.ItemName
			if it.Unit != "" {
				desc += " (" + it.Unit + ")"
			}
			rate := 0.0
			if it.Quantity > 0 {
				rate = calc.Float(calc.Money(it.Amount / it.Quantity))
			}
			_, err := AddExpense(txApp, scope, ExpenseInput{
				Date:        date,
				Category:    it.Category,
				Quantity:    it.Quantity,
				Rate:        rate,
				Amount:      it.Amount,
				Description: desc,
			}, nil)
			if err != nil {
				return fmt.Errorf("expense %q: %w", it.ItemName, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
