package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"fuelgenie-api/internal/core/domain"
	"fuelgenie-api/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscardEvidenceFilesRemovesSavedUploads(t *testing.T) {
	dir := t.TempDir()
	chequePath := filepath.Join(dir, "cheque.png")
	receiptPath := filepath.Join(dir, "receipt.pdf")
	require.NoError(t, os.WriteFile(chequePath, []byte("img"), 0o644))
	require.NoError(t, os.WriteFile(receiptPath, []byte("pdf"), 0o644))

	h := &PaymentHandler{}
	h.discardEvidenceFiles(&services.EvidenceInput{
		Cheque:   &domain.ChequeEvidence{ChequeImagePath: chequePath},
		Transfer: &domain.TransferEvidence{ReceiptPath: receiptPath},
	})

	_, err := os.Stat(chequePath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(receiptPath)
	assert.True(t, os.IsNotExist(err))
}

func TestDiscardEvidenceFilesWithoutAttachments(t *testing.T) {
	h := &PaymentHandler{}
	h.discardEvidenceFiles(&services.EvidenceInput{})
}
