package protoglue

// Messages for the cloud RPC surface.

type AuthEntity struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

type AuthenticateRequest struct {
	Entity AuthEntity `json:"entity"`
}

type AuthenticateResponse struct {
	JWT string `json:"jwt"`
}

type ConfigRequest struct {
	ID        string `json:"id"`
	AgentInfo string `json:"agent_info"`
}

type ComponentConfigWire struct {
	Name       string                 `json:"name"`
	API        string                 `json:"api"`
	Model      string                 `json:"model"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	DependsOn  []string               `json:"depends_on,omitempty"`
}

type ServiceConfigWire struct {
	Name       string                 `json:"name"`
	Model      string                 `json:"model"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type ConfigResponse struct {
	Components []ComponentConfigWire `json:"components"`
	Services   []ServiceConfigWire   `json:"services,omitempty"`
	Revision   string                `json:"revision,omitempty"`
}

type CertificateRequest struct {
	ID string `json:"id"`
}

type CertificateResponse struct {
	TLSCertPEM string `json:"tls_cert_pem"`
	TLSKeyPEM  string `json:"tls_key_pem"`
	CACrtPEM   string `json:"ca_crt_pem"`
}

type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	TimeRFC string `json:"time"`
}

type LogRequest struct {
	Entries []LogEntry `json:"entries"`
}

type LogResponse struct{}

type NeedsRestartRequest struct {
	ID string `json:"id"`
}

type NeedsRestartResponse struct {
	NeedsRestart bool `json:"needs_restart"`
}

type SignalingAnswerRequest struct {
	OfferSDP string `json:"offer_sdp"`
}

type SignalingAnswerResponse struct {
	AnswerSDP string `json:"answer_sdp"`
	// Candidate is set instead of AnswerSDP on trickled-candidate
	// messages in the server-streaming variant.
	Candidate string `json:"candidate,omitempty"`
}

// Component RPC surface envelopes: every unary component call
// is a method name plus an opaque JSON argument/result object, dispatched
// by grpcserver against the target resource's narrowed API interface.
type ComponentRequest struct {
	ResourceName string                 `json:"resource_name"`
	Method       string                 `json:"method"`
	Args         map[string]interface{} `json:"args"`
}

type ComponentResponse struct {
	Result map[string]interface{} `json:"result"`
}

// StatusGRPC mirrors the trailer metadata a call's status carries (a
// grpc-status integer and optional message).
type StatusGRPC struct {
	Code    uint32 `json:"code"`
	Message string `json:"message,omitempty"`
}
