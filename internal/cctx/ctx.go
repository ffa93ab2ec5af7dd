package cctx

type ContextKey string

var (
	SessionID ContextKey = "sr:sid"
)
