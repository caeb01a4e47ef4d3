package messagepush

import (
	"github.com/zkstack-labs/bridgehub-sdk/models"
)

const (
	// BizCodeWithdrawalUpdate is the default business code of withdrawal notifications
	BizCodeWithdrawalUpdate = "bridgehub_withdrawal"
)

// PushMessage is the envelope of every pushed message
type PushMessage struct {
	BizCode       string `json:"bizCode"`
	WalletAddress string `json:"walletAddress"`
	RequestID     string `json:"requestId"`
	PushContent   string `json:"pushContent"`
	Time          int64  `json:"time"`
}

// WithdrawalUpdate is the content pushed when a tracked withdrawal changes state
type WithdrawalUpdate struct {
	TxHash         string `json:"txHash"`
	Index          uint   `json:"index"`
	Status         string `json:"status"`
	Attempts       uint   `json:"attempts"`
	FinalizeTxHash string `json:"finalizeTxHash,omitempty"`
	LastError      string `json:"lastError,omitempty"`
}

func newWithdrawalUpdate(w *models.Withdrawal) *WithdrawalUpdate {
	update := &WithdrawalUpdate{
		TxHash:    w.TxHash.Hex(),
		Index:     w.Index,
		Status:    string(w.Status),
		Attempts:  w.Attempts,
		LastError: w.LastError,
	}
	if w.Status == models.WithdrawalStatusFinalized {
		update.FinalizeTxHash = w.FinalizeTxHash.Hex()
	}
	return update
}
