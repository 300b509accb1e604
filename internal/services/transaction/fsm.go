package transaction

import "github.com/rajivgeraev/barrio-api/internal/models"

// transitions - допустимые переходы заявки. Терминальные состояния без исходящих рёбер.
var transitions = map[models.RequestState]map[models.RequestState]struct{}{
	models.StatePending: {
		models.StateAccepted:             {},
		models.StateRejected:             {},
		models.StateCancelledByRequester: {},
		models.StateCancelledByOwner:     {},
	},
	models.StateAccepted: {
		models.StateInProgress:           {},
		models.StateCancelledByRequester: {},
		models.StateCancelledByOwner:     {},
	},
	models.StateInProgress: {
		models.StateCompleted: {},
		models.StateDisputed:  {},
	},
	models.StateRejected:             {},
	models.StateCancelledByRequester: {},
	models.StateCancelledByOwner:     {},
	models.StateCompleted:            {},
	models.StateDisputed:             {},
}

// CanTransition сообщает, есть ли ребро from -> to
func CanTransition(from, to models.RequestState) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// checkTransition возвращает StateConflict для недопустимого перехода
func checkTransition(from, to models.RequestState) error {
	if CanTransition(from, to) {
		return nil
	}
	return models.NewStateConflict("Заявка в состоянии " + from.Name() + ", переход в " + to.Name() + " невозможен")
}
