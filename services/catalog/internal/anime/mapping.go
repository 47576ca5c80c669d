package anime

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/example/anime-catalog/services/catalog/internal/domain"
)

// UnknownTitle is used when the upstream record carries no title at all.
const UnknownTitle = "unknown"

// ErrUnexpectedShape marks a well-formed JSON body whose "data" field has the wrong type.
var ErrUnexpectedShape = errors.New("unexpected data shape")

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// AnimeData is the subset of an upstream record the catalog reads.
type AnimeData struct {
	Title  string `json:"title"`
	Titles []struct {
		Title string `json:"title"`
	} `json:"titles"`
	Score json.RawMessage `json:"score"`
}

// ToInfo maps an upstream record. Upstream carries no watch state, so every
// record starts out planned.
func ToInfo(data AnimeData) domain.Info {
	return domain.Info{
		Title:  bestTitle(data),
		Score:  parseScore(data.Score),
		Status: domain.StatusPlanned,
	}
}

func bestTitle(data AnimeData) string {
	if len(data.Titles) > 0 && data.Titles[0].Title != "" {
		return data.Titles[0].Title
	}
	if data.Title != "" {
		return data.Title
	}
	return UnknownTitle
}

// parseScore truncates a JSON number or numeric string to an int; anything
// else, including values outside the int range, is 0.
func parseScore(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	f = math.Trunc(f)
	// Out-of-range floats have no defined int conversion.
	if math.IsNaN(f) || f >= math.MaxInt || f < math.MinInt {
		return 0
	}
	return int(f)
}

// decodeList maps a "data" array. Anything that is not an array yields no records.
func decodeList(raw json.RawMessage) ([]domain.Info, error) {
	out := []domain.Info{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return out, nil
	}
	var items []AnimeData
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	for _, it := range items {
		out = append(out, ToInfo(it))
	}
	return out, nil
}

// decodeOne maps a "data" object. Absent, null and empty objects mean not found.
func decodeOne(raw json.RawMessage) (*domain.Info, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '{' {
		return nil, fmt.Errorf("%w: data is not an object", ErrUnexpectedShape)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	var item AnimeData
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	info := ToInfo(item)
	return &info, nil
}
