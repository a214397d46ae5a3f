package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

func validateSubmit(req *SubmitRequest, rules domain.Rules) (domain.DateRange, string, error) {
	if req.Actor.Kind != domain.ActorRequester {
		return domain.DateRange{}, "", fmt.Errorf("%w: only a requester may submit", domain.ErrForbidden)
	}
	if err := domain.ValidateEmail(req.Actor.Email); err != nil {
		return domain.DateRange{}, "", err
	}

	firstName, err := domain.ValidateFirstName(req.FirstName)
	if err != nil {
		return domain.DateRange{}, "", err
	}

	rng, err := domain.NewDateRange(req.Start, req.End)
	if err != nil {
		return domain.DateRange{}, "", err
	}

	if err := domain.ValidatePartySize(req.PartySize, rules.MaxPartySize); err != nil {
		return domain.DateRange{}, "", err
	}
	if !req.Affiliation.Valid() {
		return domain.DateRange{}, "", domain.NewValidationError("affiliation", "unknown affiliation")
	}
	if err := domain.ValidateDescription(req.Description); err != nil {
		return domain.DateRange{}, "", err
	}

	return rng, firstName, nil
}

// validateWindow начало в [today, today + горизонт], подтверждение длинного пребывания
func validateWindow(rng domain.DateRange, today time.Time, rules domain.Rules, longStayConfirmed bool) error {
	if rng.Start.Before(today) {
		return domain.NewValidationError("start_date", "start date must not be in the past")
	}
	return validateHorizon(rng, today, rules, longStayConfirmed)
}

// validateHorizon ограничения для нового диапазона уже существующего бронирования
func validateHorizon(rng domain.DateRange, today time.Time, rules domain.Rules, longStayConfirmed bool) error {
	if rng.IsPast(today) {
		return domain.NewValidationError("end_date", "end date must not be in the past")
	}
	if rng.Start.After(rules.HorizonEnd(today)) {
		return domain.NewValidationError("start_date",
			fmt.Sprintf("requests may be made at most %d months in advance", rules.FutureHorizonMonths))
	}
	if rules.IsLongStay(rng) && !longStayConfirmed {
		return domain.NewValidationError("long_stay_confirmed",
			fmt.Sprintf("the request spans %d days, please confirm the long stay", rng.TotalDays()))
	}
	return nil
}

func validateDecide(req *DecideRequest) error {
	if !req.Party.Valid() {
		return domain.NewValidationError("party", "unknown party")
	}

	switch req.Decision {
	case domain.DecisionApproved:
		return nil
	case domain.DecisionDenied:
		if req.Comment == nil || strings.TrimSpace(*req.Comment) == "" {
			return domain.NewValidationError("comment", "a comment is required when denying")
		}
		return domain.ValidateComment(*req.Comment)
	default:
		return domain.NewValidationError("decision", "decision must be Approved or Denied")
	}
}

func validateEdit(req *EditRequest, rules domain.Rules) error {
	if req.PartySize != nil {
		if err := domain.ValidatePartySize(*req.PartySize, rules.MaxPartySize); err != nil {
			return err
		}
	}
	if req.Affiliation != nil && !req.Affiliation.Valid() {
		return domain.NewValidationError("affiliation", "unknown affiliation")
	}
	if req.FirstName != nil {
		if _, err := domain.ValidateFirstName(*req.FirstName); err != nil {
			return err
		}
	}
	return domain.ValidateDescription(req.Description)
}

func validateOptionalComment(comment *string) error {
	if comment == nil {
		return nil
	}
	return domain.ValidateComment(*comment)
}

// mergeRange применяет частично заданные границы к текущему диапазону
func mergeRange(current domain.DateRange, start, end *time.Time) (domain.DateRange, error) {
	s, e := current.Start, current.End
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	return domain.NewDateRange(s, e)
}

func trimmedComment(comment *string) string {
	if comment == nil {
		return ""
	}
	return strings.TrimSpace(*comment)
}
