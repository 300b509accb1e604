package models

// AvailabilityMode определяет, для каких сделок доступен объект
type AvailabilityMode string

const (
	AvailabilityLoan         AvailabilityMode = "PR"
	AvailabilityRental       AvailabilityMode = "AL"
	AvailabilityExchange     AvailabilityMode = "IN"
	AvailabilityLoanOrRental AvailabilityMode = "PA"
	AvailabilityAll          AvailabilityMode = "TO"
)

// Valid проверяет, что код режима известен
func (m AvailabilityMode) Valid() bool {
	switch m {
	case AvailabilityLoan, AvailabilityRental, AvailabilityExchange, AvailabilityLoanOrRental, AvailabilityAll:
		return true
	}
	return false
}

// Allows сообщает, допускает ли режим данный тип сделки
func (m AvailabilityMode) Allows(t TransactionType) bool {
	switch m {
	case AvailabilityLoan:
		return t == TransactionLoan
	case AvailabilityRental:
		return t == TransactionRental
	case AvailabilityExchange:
		return t == TransactionExchange
	case AvailabilityLoanOrRental:
		return t == TransactionLoan || t == TransactionRental
	case AvailabilityAll:
		return t.Valid()
	}
	return false
}

// ImpliesRental - режим требует цену аренды за день
func (m AvailabilityMode) ImpliesRental() bool {
	return m.Allows(TransactionRental)
}

// TransactionType - тип запрашиваемой сделки
type TransactionType string

const (
	TransactionLoan     TransactionType = "PR"
	TransactionRental   TransactionType = "AL"
	TransactionExchange TransactionType = "IN"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionLoan, TransactionRental, TransactionExchange:
		return true
	}
	return false
}

// ReturnsItem - объект должен вернуться владельцу (заём и аренда)
func (t TransactionType) ReturnsItem() bool {
	switch t {
	case TransactionLoan, TransactionRental:
		return true
	case TransactionExchange:
		return false
	}
	return false
}

// RequestState - состояние заявки на сделку
type RequestState string

const (
	StatePending              RequestState = "PE"
	StateAccepted             RequestState = "AC"
	StateRejected             RequestState = "RE"
	StateCancelledByRequester RequestState = "CS"
	StateCancelledByOwner     RequestState = "CP"
	StateInProgress           RequestState = "EC"
	StateCompleted            RequestState = "CO"
	StateDisputed             RequestState = "DI"
)

func (s RequestState) Valid() bool {
	switch s {
	case StatePending, StateAccepted, StateRejected, StateCancelledByRequester,
		StateCancelledByOwner, StateInProgress, StateCompleted, StateDisputed:
		return true
	}
	return false
}

// IsTerminal - из состояния нет переходов
func (s RequestState) IsTerminal() bool {
	switch s {
	case StateRejected, StateCancelledByRequester, StateCancelledByOwner, StateCompleted, StateDisputed:
		return true
	case StatePending, StateAccepted, StateInProgress:
		return false
	}
	return false
}

// Name возвращает читаемое имя состояния для логов
func (s RequestState) Name() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	case StateCancelledByRequester:
		return "cancelled_by_requester"
	case StateCancelledByOwner:
		return "cancelled_by_owner"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	case StateDisputed:
		return "disputed"
	}
	return string(s)
}
