package domain

// Hit is one nearest-neighbour match as returned by the vector database.
type Hit struct {
	// Payload is the opaque key/value mapping stored with the vector at index time.
	Payload map[string]any
	// Score is the similarity score; higher is more similar. Its scale depends on the
	// collection's distance metric.
	Score float64
}

// Item is a Hit annotated with its zero-based rank in the returned sequence.
type Item struct {
	Payload      map[string]any `json:"payload"`
	Score        float64        `json:"score"`
	ResultNumber int            `json:"result_number"`
}

// Rank converts hits into items, numbering them by position. Order is preserved.
func Rank(hits []Hit) []Item {
	items := make([]Item, len(hits))
	for i, h := range hits {
		payload := h.Payload
		if payload == nil {
			payload = map[string]any{}
		}
		items[i] = Item{Payload: payload, Score: h.Score, ResultNumber: i}
	}
	return items
}
