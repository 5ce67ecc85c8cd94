package bridge

import "github.com/roach88/kern/internal/doc"

// RequestKind names an operation the engine context can perform.
type RequestKind string

const (
	ReqInit           RequestKind = "init"
	ReqCheckHealth    RequestKind = "check_health"
	ReqGetView        RequestKind = "get_view"
	ReqApplyEdit      RequestKind = "apply_edit"
	ReqSetText        RequestKind = "set_text"
	ReqExportSnapshot RequestKind = "export_snapshot"
	ReqExportUpdates  RequestKind = "export_updates"
	ReqLoadFromBytes  RequestKind = "load_from_bytes"
	ReqGetText        RequestKind = "get_text"
	ReqGetVersion     RequestKind = "get_version"
)

// ResponseKind names the answer to a request. Every request kind has exactly
// one success kind, plus RespError for rejections.
type ResponseKind string

const (
	RespReady    ResponseKind = "ready"
	RespHealth   ResponseKind = "health"
	RespView     ResponseKind = "view"
	RespEdited   ResponseKind = "edited"
	RespSnapshot ResponseKind = "snapshot"
	RespUpdates  ResponseKind = "updates"
	RespLoaded   ResponseKind = "loaded"
	RespText     ResponseKind = "text"
	RespVersion  ResponseKind = "version"
	RespError    ResponseKind = "error"
)

// responseKinds maps each request kind to its success response kind.
// get_view and set_text intentionally share RespView.
var responseKinds = map[RequestKind]ResponseKind{
	ReqInit:           RespReady,
	ReqCheckHealth:    RespHealth,
	ReqGetView:        RespView,
	ReqApplyEdit:      RespEdited,
	ReqSetText:        RespView,
	ReqExportSnapshot: RespSnapshot,
	ReqExportUpdates:  RespUpdates,
	ReqLoadFromBytes:  RespLoaded,
	ReqGetText:        RespText,
	ReqGetVersion:     RespVersion,
}

// ResponseKindFor returns the success response kind for a request kind.
func ResponseKindFor(k RequestKind) (ResponseKind, bool) {
	r, ok := responseKinds[k]
	return r, ok
}

// Request is one message to the engine context. Only the fields relevant to
// Kind are set.
type Request struct {
	Kind    RequestKind    `json:"kind"`
	Delta   *doc.EditDelta `json:"delta,omitempty"`
	Content string         `json:"content,omitempty"`
	Data    []byte         `json:"data,omitempty"`
}

// Response is one message from the engine context. Re always names the
// request kind being answered; for RespError it is what the dispatcher
// routes by.
type Response struct {
	Kind     ResponseKind `json:"kind"`
	Re       RequestKind  `json:"re,omitempty"`
	Health   string       `json:"health,omitempty"`
	View     *doc.View    `json:"view,omitempty"`
	Affected []int        `json:"affected_lines,omitempty"`
	Data     []byte       `json:"data,omitempty"`
	Content  string       `json:"content,omitempty"`
	Version  uint64       `json:"version,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// ResponseError is a request the engine context explicitly rejected. Error()
// returns the context's message verbatim so callers can surface it
// unchanged.
type ResponseError struct {
	Request RequestKind
	Message string
}

func (e *ResponseError) Error() string {
	return e.Message
}
