package internal

import (
	"discoverlx/poi-api/internal/account"
	"discoverlx/poi-api/internal/content"
	"discoverlx/poi-api/internal/storage"
	"discoverlx/poi-api/pkg/security"
)

type Deps struct {
	Accounts *account.Service
	Contents *content.Service
	Store    storage.Storage
	Sessions *security.SessionGate
}
