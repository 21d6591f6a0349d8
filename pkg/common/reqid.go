package common

import "github.com/google/uuid"

const (
	MetaRequestID   = "x-request-id" // grpc metadata keys are lowercase
	CtxKeyRequestID = "request_id"
)

func New() string { return uuid.NewString() }
