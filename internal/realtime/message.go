package realtime

import "github.com/grachmannico95/donation-be/internal/domain"

type MessageType string

const (
	MessageTypeDonorList       MessageType = "donor_list"
	MessageTypeDonationPending MessageType = "donation_pending"
	MessageTypeDonationUpdate  MessageType = "donation_update"
	MessageTypeError           MessageType = "error"
)

type Message struct {
	Type MessageType `json:"type"`
	Data any         `json:"data"`
}

func DonorListMessage(donors []domain.DonorSummary) Message {
	if donors == nil {
		donors = []domain.DonorSummary{}
	}
	return Message{
		Type: MessageTypeDonorList,
		Data: map[string]any{
			"donors": donors,
			"status": "connected",
		},
	}
}

func DonationPendingMessage() Message {
	return Message{
		Type: MessageTypeDonationPending,
		Data: map[string]any{
			"message": "Donation initiated. Please complete payment on your phone.",
			"status":  "pending",
		},
	}
}

// DonationSuccessMessage announces a completed donation. replay is set when
// the same completion was already announced.
func DonationSuccessMessage(donor domain.DonorSummary, replay bool) Message {
	return Message{
		Type: MessageTypeDonationUpdate,
		Data: map[string]any{
			"status":  "success",
			"donor":   donor,
			"message": "New donation received!",
			"replay":  replay,
		},
	}
}

func DonationFailedMessage(resultDesc string) Message {
	if resultDesc == "" {
		resultDesc = "Payment failed"
	}
	return Message{
		Type: MessageTypeDonationUpdate,
		Data: map[string]any{
			"status":  "error",
			"message": resultDesc,
		},
	}
}

func ErrorMessage(msg string) Message {
	return Message{
		Type: MessageTypeError,
		Data: map[string]any{
			"message": msg,
		},
	}
}
