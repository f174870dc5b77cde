package entity

// HTTPMessage represents a complete HTTP message (request + response)
type HTTPMessage struct {
	Request  *HTTPRequest  `json:"request"`
	Response *HTTPResponse `json:"response"`
}

// HTTPRequest represents detailed HTTP request info
type HTTPRequest struct {
	Method string            `json:"method"`
	URL    string            `json:"url"`
	Proto  string            `json:"proto"`
	Header map[string]string `json:"header"`
}

// HTTPResponse represents detailed HTTP response info
type HTTPResponse struct {
	Proto         string            `json:"proto"`
	StatusCode    int               `json:"status_code"`
	Status        string            `json:"status"`
	Header        map[string]string `json:"header"`
	Body          string            `json:"body"`
	ContentLength int64             `json:"content_length"`
}

// DNSMessage represents a complete DNS transaction
type DNSMessage struct {
	Domain     string   `json:"domain"`
	RecordType string   `json:"record_type"`
	Server     string   `json:"server"`
	Rcode      string   `json:"rcode,omitempty"`
	Answers    []string `json:"answers,omitempty"`
	RTT        int64    `json:"rtt"`   // in milliseconds
	Error      string   `json:"error"` // string error representation
}

// WhoisMessage represents one WHOIS query
type WhoisMessage struct {
	Domain string `json:"domain"`
	Server string `json:"server,omitempty"`
	Error  string `json:"error,omitempty"`
}

// LookupLog is one line of the lookup log
type LookupLog struct {
	Kind       LookupKind    `json:"kind"`
	Query      string        `json:"query"`
	RecordType string        `json:"record_type,omitempty"`
	OK         bool          `json:"ok"`
	Reason     FailureReason `json:"reason,omitempty"`
	Message    string        `json:"message,omitempty"`
	DurationMs int64         `json:"duration_ms"`
	Timestamp  int64         `json:"timestamp"`
}
