package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc, opts ...Option) *FuelPriceAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFuelPriceAPI(append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func TestFuelPriceAPI_Records(t *testing.T) {
	var got map[string]string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{"total_count": 1, "results": [
			{"id": 75001001, "latitude": "4886000", "longitude": 235000, "cp": "75001",
			 "adresse": "1 rue de Rivoli", "ville": "Paris",
			 "gazole_prix": 1.789, "gazole_maj": "2024-05-02T10:00:00+02:00",
			 "e85_prix": null, "e85_maj": null, "unknown_prix": 3}
		]}`))
	}, WithTimeZone("Europe/Brussels"))

	set, err := api.Records(context.Background(), Query{
		Select:  StationFields,
		Where:   WhereID(75001001),
		OrderBy: Gazole.PriceField(),
		Offset:  100,
		Limit:   1,
	})
	if err != nil {
		t.Fatalf("Records() failed: %v", err)
	}

	want := map[string]string{
		"select":   "id,latitude,longitude,cp,adresse,ville",
		"where":    "id=75001001",
		"order_by": "gazole_prix",
		"offset":   "100",
		"limit":    "1",
		"lang":     "fr",
		"timezone": "Europe/Brussels",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("param %s = %q, expected %q", k, got[k], v)
		}
	}

	if set.TotalCount != 1 || len(set.Results) != 1 {
		t.Fatalf("unexpected record set: %+v", set)
	}
	rec := set.Results[0]
	if rec.ID != 75001001 || !rec.HasID {
		t.Errorf("ID = %d, expected 75001001", rec.ID)
	}
	lat, lng, err := rec.Coordinates()
	if err != nil {
		t.Fatalf("Coordinates() failed: %v", err)
	}
	if lat != 48.86 || lng != 2.35 {
		t.Errorf("Coordinates() = %f, %f", lat, lng)
	}
	if rec.Address != "1 rue de Rivoli" || rec.PostalCode != "75001" || rec.City != "Paris" {
		t.Errorf("unexpected address fields: %+v", rec)
	}
	if u, ok := rec.Fuel(Gazole); !ok || u.Price != 1.789 || u.Updated != "2024-05-02T10:00:00+02:00" {
		t.Errorf("Fuel(Gazole) = %+v, %v", u, ok)
	}
	if _, ok := rec.Fuel(E85); ok {
		t.Error("null E85 price should not be reported")
	}
}

func TestFuelPriceAPI_RequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusBadRequest, `{"error_code": "ODSQLError"}`},
		{"missing results", http.StatusOK, `{"total_count": 0}`},
		{"malformed payload", http.StatusOK, `<html>`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				w.Write([]byte(test.body))
			})

			_, err := api.Records(context.Background(), Query{})
			if !errors.Is(err, ErrRequest) {
				t.Fatalf("expected ErrRequest, got %v", err)
			}
			if errors.Is(err, ErrCannotConnect) {
				t.Error("request error should not match ErrCannotConnect")
			}
			var reqErr *RequestError
			if !errors.As(err, &reqErr) || reqErr.StatusCode != test.status {
				t.Errorf("expected *RequestError with status %d, got %v", test.status, err)
			}
		})
	}
}

func TestFuelPriceAPI_Timeout(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(50*time.Millisecond))

	_, err := api.Records(context.Background(), Query{})
	if !errors.Is(err, ErrCannotConnect) {
		t.Fatalf("expected ErrCannotConnect, got %v", err)
	}
	var connErr *CannotConnectError
	if !errors.As(err, &connErr) || !connErr.Timeout {
		t.Errorf("expected a timeout error, got %v", err)
	}
}

func TestFuelPriceAPI_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	api := NewFuelPriceAPI(WithBaseURL(url))
	_, err := api.Records(context.Background(), Query{})
	if !errors.Is(err, ErrCannotConnect) {
		t.Fatalf("expected ErrCannotConnect, got %v", err)
	}
}

func TestWhereDistance(t *testing.T) {
	got := WhereDistance(48.8566, 2.3522, 15)
	want := "distance(geom, geom'POINT(2.3522 48.8566)', 15km)"
	if got != want {
		t.Errorf("WhereDistance() = %q, expected %q", got, want)
	}
}

func TestPriceFields(t *testing.T) {
	got := PriceFields(E10, Gazole)
	want := []string{"e10_prix", "gazole_prix", "e10_maj", "gazole_maj"}
	if len(got) != len(want) {
		t.Fatalf("PriceFields() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PriceFields()[%d] = %q, expected %q", i, got[i], want[i])
		}
	}
}

func TestParseFuelType(t *testing.T) {
	tests := []struct {
		input    string
		expected FuelType
		hasError bool
	}{
		{"gazole", Gazole, false},
		{"SP95", SP95, false},
		{"gplc", GPLc, false},
		{"diesel", "", true},
		{"", "", true},
	}

	for _, test := range tests {
		result, err := ParseFuelType(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("ParseFuelType(%q) expected error but got none", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFuelType(%q) unexpected error: %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("ParseFuelType(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		present  bool
		hasError bool
	}{
		{`4886000`, 4886000, true, false},
		{`"4886000"`, 4886000, true, false},
		{`"1,789"`, 1.789, true, false},
		{`null`, 0, false, false},
		{`""`, 0, false, false},
		{`"invalid"`, 0, false, true},
	}

	for _, test := range tests {
		result, present, err := parseNumber([]byte(test.input))
		if test.hasError {
			if err == nil {
				t.Errorf("parseNumber(%s) expected error but got none", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseNumber(%s) unexpected error: %v", test.input, err)
		}
		if result != test.expected || present != test.present {
			t.Errorf("parseNumber(%s) = %f, %v, expected %f, %v", test.input, result, present, test.expected, test.present)
		}
	}
}

func TestFuelPriceAPI_MalformedRow(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_count": 2, "results": [
			{"id": 101, "latitude": "4886000", "longitude": "235000", "gazole_prix": 1.789},
			{"id": 202, "latitude": "n/a", "longitude": "483000", "e10_prix": "cheap"}
		]}`))
	})

	set, err := api.Records(context.Background(), Query{Limit: 2})
	if err != nil {
		t.Fatalf("Records() failed: %v", err)
	}
	if len(set.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(set.Results))
	}

	good := set.Results[0]
	if good.Err != nil {
		t.Errorf("unexpected error on valid row: %v", good.Err)
	}
	if u, ok := good.Fuel(Gazole); !ok || u.Price != 1.789 {
		t.Errorf("expected Gazole at 1.789, got %v %v", u, ok)
	}

	bad := set.Results[1]
	if bad.Err == nil {
		t.Fatal("expected an error on the malformed row")
	}
	if bad.ID != 202 || !bad.HasID {
		t.Errorf("expected id 202 to be kept, got %d", bad.ID)
	}
	if bad.RawLatitude != nil {
		t.Errorf("expected no latitude, got %v", *bad.RawLatitude)
	}
}
