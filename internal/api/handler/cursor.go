package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/saulmartinx/wolk/internal/storage"
)

func DecodeTransactionCursor(cursorStr string) (*storage.TransactionCursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	// Payment ids may contain the separator, so only split once
	decodedParts := strings.SplitN(string(decoded), "|", 2)
	if len(decodedParts) != 2 || decodedParts[1] == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var createdAt int64
	_, err = fmt.Sscanf(decodedParts[0], "%d", &createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt in cursor: %w", err)
	}

	return &storage.TransactionCursor{
		CreatedAt: time.Unix(0, createdAt).UTC(),
		PaymentID: decodedParts[1],
	}, nil
}

func EncodeTransactionCursor(cursor *storage.TransactionCursor) string {
	cs := fmt.Sprintf("%d|%s", cursor.CreatedAt.UnixNano(), cursor.PaymentID)
	return base64.URLEncoding.EncodeToString([]byte(cs))
}
