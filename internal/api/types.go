package api

import (
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
)

// envelope is the common frame of every upstream response. A missing or false
// success flag is always a recoverable, user-reportable failure.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (e envelope) status() (bool, string) { return e.Success, e.Message }

// response is satisfied by every wire response via an embedded envelope.
type response interface {
	status() (bool, string)
}

type projectsResponse struct {
	envelope
	Projects []catalog.Project `json:"projects"`
}

type productsResponse struct {
	envelope
	Products []catalog.Product `json:"products"`
}

type skcsResponse struct {
	envelope
	SKCs []skc.SKC `json:"skcs"`
}

type addSKCsResponse struct {
	envelope
	AddedCount     int `json:"added_count"`
	DuplicateCount int `json:"duplicate_count"`
}

type batchUpdateResponse struct {
	envelope
	UpdatedCount int `json:"updated_count"`
}

type batchDeleteResponse struct {
	envelope
	DeletedCount int `json:"deleted_count"`
}

type imagesResponse struct {
	envelope
	Images []catalog.Image `json:"images"`
}

type statsResponse struct {
	envelope
	Stats catalog.Stats `json:"stats"`
}

type exportResponse struct {
	envelope
	Export struct {
		ID int64 `json:"id"`
	} `json:"export"`
}

// CreateOutcome is the tagged result of a lookup-or-create product request.
// The upstream signals "already exists" through message text; the gateway
// translates that into a structured outcome so nothing above this layer
// matches on message wording.
type CreateOutcome int

const (
	OutcomeCreated CreateOutcome = iota
	OutcomeAlreadyExists
)

// duplicateMarker is the substring the upstream embeds in duplicate-name
// rejection messages.
const duplicateMarker = "已存在"
