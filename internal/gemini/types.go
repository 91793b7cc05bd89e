package gemini

// Wire types for the generative language REST API. The response shape
// is decoded once here; everything downstream works on typed values
// with explicit optional fields instead of ad-hoc presence checks.

// Content is one conversational turn sent to the model.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is a single text fragment within a turn.
type Part struct {
	Text string `json:"text"`
}

type generateBody struct {
	Contents          []Content          `json:"contents"`
	Tools             []tool             `json:"tools,omitempty"`
	SystemInstruction *systemInstruction `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig  `json:"generationConfig,omitempty"`
}

type tool struct {
	FileSearch *fileSearch `json:"file_search,omitempty"`
}

type fileSearch struct {
	FileSearchStoreNames []string `json:"file_search_store_names"`
}

type systemInstruction struct {
	Parts []Part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// GenerateResponse is the decoded generateContent reply.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer. Content and GroundingMetadata are
// optional in the wire format.
type Candidate struct {
	Content           *CandidateContent  `json:"content"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata"`
}

// CandidateContent holds the answer fragments in arrival order.
type CandidateContent struct {
	Parts []Part `json:"parts"`
}

// GroundingMetadata carries the retrieval references for a candidate.
type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks"`
}

// GroundingChunk references one retrieved context; RetrievedContext is
// nil for chunks of other kinds.
type GroundingChunk struct {
	RetrievedContext *RetrievedContext `json:"retrievedContext"`
}

// RetrievedContext is the stored document excerpt behind a citation.
type RetrievedContext struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Store identifies a remote file search store.
type Store struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type listStoresResponse struct {
	FileSearchStores []Store `json:"fileSearchStores"`
	NextPageToken    string  `json:"nextPageToken"`
}
