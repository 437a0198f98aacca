package oracle

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shopfront/internal/catalog"
	"github.com/talgya/shopfront/internal/customer"
	"github.com/talgya/shopfront/internal/negotiation"
)

// fakeOracle serves canned completions in the messages API shape.
func fakeOracle(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"text":` + jsonQuote(text) + `}],"usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
}

func jsonQuote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		default:
			out = append(out, s[i])
		}
	}
	return string(append(out, '"'))
}

func testClient(url string) *Client {
	c := NewClient("test-key")
	c.apiURL = url
	return c
}

func TestClientDisabledWithoutKey(t *testing.T) {
	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	assert.Nil(t, NewClient(""))

	// Every oracle feature degrades instead of panicking on a nil client.
	assert.Nil(t, nilClient.GenerateBatch(3, 1, testEvent, BiasRandom))
	assert.Equal(t, "hello", nilClient.Announce("hello", "all"))
	report := nilClient.Summarize([]Standing{{PlayerName: "Rosa", ShopName: "Rosa's Curios"}}, "Heatwave")
	assert.Contains(t, report, "Rosa's Curios")
	assert.Contains(t, report, "Heatwave")
}

func TestCompleteRoundTrip(t *testing.T) {
	srv := fakeOracle(t, "a fine answer")
	defer srv.Close()

	got, err := testClient(srv.URL).Complete("system", "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "a fine answer", got)
}

func TestCompleteRateLimit(t *testing.T) {
	srv := fakeOracle(t, "ok")
	defer srv.Close()

	c := testClient(srv.URL)
	c.maxPerMin = 2

	_, err := c.Complete("s", "p", 10)
	require.NoError(t, err)
	_, err = c.Complete("s", "p", 10)
	require.NoError(t, err)
	_, err = c.Complete("s", "p", 10)
	assert.ErrorContains(t, err, "rate limit")
}

func TestNegotiateParsesWrappedJSON(t *testing.T) {
	srv := fakeOracle(t, "Here is my answer:\n```json\n{\"text\": \"Hmm, tempting.\", \"outcome\": \"ongoing\", \"mood_score\": 14}\n```")
	defer srv.Close()

	card := &customer.Card{Name: "Rosa", Trait: customer.TraitSkeptical, Intent: customer.IntentBuying}
	d, err := testClient(srv.URL).Negotiate(card, "Brass Lamp", 150, 1, 200,
		[]negotiation.Message{{Sender: "customer", Text: "Hello."}})
	require.NoError(t, err)

	assert.Equal(t, "Hmm, tempting.", d.Text)
	assert.Equal(t, negotiation.OutcomeOngoing, d.Outcome)
	assert.Equal(t, 10, d.MoodScore, "mood score clamps to [-10, 10]")
}

func TestNegotiateRejectsBadOutcome(t *testing.T) {
	srv := fakeOracle(t, `{"text": "ok", "outcome": "maybe", "mood_score": 0}`)
	defer srv.Close()

	card := &customer.Card{Name: "Rosa", Trait: customer.TraitSkeptical, Intent: customer.IntentBuying}
	_, err := testClient(srv.URL).Negotiate(card, "Brass Lamp", 150, 1, 200, nil)
	assert.Error(t, err, "an unknown outcome must surface as an error, not leak through")
}

func TestExtractJSON(t *testing.T) {
	got, err := extractJSON("noise {\"a\": 1} trailing")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, got)

	_, err = extractJSON("no json here")
	assert.Error(t, err)

	got, err = extractJSONArray("sure! [1, 2] done")
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", got)
}

func TestGenerateBatchDropsInvalidCards(t *testing.T) {
	srv := fakeOracle(t, `[
		{"id": "", "name": "Good Gus", "trait": "impulsive", "intent": "buying",
		 "preferred_categories": ["toys"], "willingness": 1.1, "purchase_quantity": 1,
		 "base_patience": 70, "base_interest": 50, "opening": "Hello!"},
		{"id": "", "name": "Bad Bart", "trait": "grumpy", "intent": "buying",
		 "willingness": 1.0, "purchase_quantity": 1, "base_patience": 50, "base_interest": 50}
	]`)
	defer srv.Close()

	cards := testClient(srv.URL).GenerateBatch(2, 1, testEvent, BiasHard)
	require.Len(t, cards, 1, "the unknown trait is dropped, the valid card kept")
	assert.Equal(t, "Good Gus", cards[0].Name)
	assert.NotEmpty(t, cards[0].ID, "missing ids are minted during normalization")
}

func TestAnnounceRetriesThenFallsBack(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	old := announceBackoff
	announceBackoff = time.Millisecond
	defer func() { announceBackoff = old }()

	got := testClient(srv.URL).Announce("round two begins", "all players")
	assert.Equal(t, "round two begins", got, "after retries the raw line is used")
	assert.Equal(t, announceAttempts, calls)
}

var testEvent = catalog.GameEvent{
	ID: "heatwave", Name: "Heatwave",
	Description:       "Record temperatures send everyone hunting for cold drinks.",
	BoostedCategories: []catalog.Category{catalog.CategoryDrinks},
}
