package store

import "errors"

var errInsufficientFunds = errors.New("store: insufficient ledger balance")
