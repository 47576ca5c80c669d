package anime

import (
	"encoding/json"
	"testing"

	"github.com/example/anime-catalog/services/catalog/internal/domain"
)

func TestToInfo(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.Info
	}{
		{name: "nested title wins", in: `{"titles":[{"title":"Foo"}],"title":"Flat","score":"7"}`, want: domain.Info{Title: "Foo", Score: 7}},
		{name: "flat fallback", in: `{"title":"Flat","score":9.9}`, want: domain.Info{Title: "Flat", Score: 9}},
		{name: "empty nested falls back", in: `{"titles":[{"title":""}],"title":"Flat"}`, want: domain.Info{Title: "Flat"}},
		{name: "whitespace nested kept", in: `{"titles":[{"title":" "}],"title":"Flat"}`, want: domain.Info{Title: " "}},
		{name: "flat title untouched", in: `{"title":" Flat "}`, want: domain.Info{Title: " Flat "}},
		{name: "large score", in: `{"title":"T","score":3000000000}`, want: domain.Info{Title: "T", Score: 3000000000}},
		{name: "large string score", in: `{"title":"T","score":"4000000000.9"}`, want: domain.Info{Title: "T", Score: 4000000000}},
		{name: "score beyond int range", in: `{"title":"T","score":1e30}`, want: domain.Info{Title: "T"}},
		{name: "empty titles list", in: `{"titles":[],"title":"Flat"}`, want: domain.Info{Title: "Flat"}},
		{name: "unknown", in: `{}`, want: domain.Info{Title: UnknownTitle}},
		{name: "null score", in: `{"title":"T","score":null}`, want: domain.Info{Title: "T"}},
		{name: "non-numeric score", in: `{"title":"T","score":"great"}`, want: domain.Info{Title: "T"}},
		{name: "bool score", in: `{"title":"T","score":true}`, want: domain.Info{Title: "T"}},
		{name: "negative score", in: `{"title":"T","score":-2.5}`, want: domain.Info{Title: "T", Score: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data AnimeData
			if err := json.Unmarshal([]byte(tt.in), &data); err != nil {
				t.Fatal(err)
			}
			tt.want.Status = domain.StatusPlanned
			if got := ToInfo(data); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
