// =============================================================================
// Ticket Counter - Purchase Session
// =============================================================================
//
// A session walks one purchase forward through a fixed chain of states:
//
//   SelectCategory -> SelectTopUp -> Confirm -> Completed | Cancelled
//
// No state is entered twice. A Completed session yields exactly one purchase,
// a Cancelled one yields none. Repeat runs sessions until the user stops
// shopping or the input stops answering, and appends only completed purchases.
//
// =============================================================================

package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/ginjaninja78/ticket-counter/internal/prompt"
	"github.com/ginjaninja78/ticket-counter/internal/types"
)

// State is a step of the purchase session.
type State int

const (
	SelectCategory State = iota
	SelectTopUp
	Confirm
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case SelectCategory:
		return "select_category"
	case SelectTopUp:
		return "select_topup"
	case Confirm:
		return "confirm"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Cancellation reasons.
const (
	ReasonNoCategories   = "no categories"
	ReasonNoTopUps       = "no top-ups for category"
	ReasonDetailsMissing = "details not found"
	ReasonDeclined       = "user declined"
	ReasonInputClosed    = "input closed"
	ReasonInputFailed    = "input failed"
)

// Outcome is the terminal result of one session.
type Outcome struct {
	State    State
	Purchase *types.PurchaseRecord // set only when State is Completed
	Reason   string                // set only when State is Cancelled

	// Inconsistent marks a cancellation caused by a top-up that was listed
	// for the category but has no matching catalog row.
	Inconsistent bool
}

// Catalog is the read-only view of the ticket catalog a session needs.
// *catalog.Index satisfies it.
type Catalog interface {
	Categories() []string
	TopUps(category string) []string
	Details(category, topup string) (types.CatalogRecord, bool)
}

// Session drives purchases against a catalog through a prompt channel.
type Session struct {
	catalog Catalog
	prompt  prompt.Channel
	out     io.Writer
}

// New creates a session. Menus and messages are written to out.
func New(catalog Catalog, ch prompt.Channel, out io.Writer) *Session {
	return &Session{
		catalog: catalog,
		prompt:  ch,
		out:     out,
	}
}

// Run performs one purchase attempt. The returned error is non-nil only when
// the prompt channel fails. The outcome is then Cancelled with
// ReasonInputClosed for prompt.ErrInputClosed and ReasonInputFailed otherwise.
func (s *Session) Run() (Outcome, error) {
	// SelectCategory
	categories := s.catalog.Categories()
	if len(categories) == 0 {
		fmt.Fprintln(s.out, "No categories available.")
		return cancelled(ReasonNoCategories), nil
	}

	fmt.Fprintln(s.out, "\nChoose a category:")
	s.printMenu(categories)
	choice, err := s.prompt.AskBoundedInt("Enter category number: ", 1, len(categories))
	if err != nil {
		return inputError(err)
	}
	category := categories[choice-1]

	// SelectTopUp
	topups := s.catalog.TopUps(category)
	if len(topups) == 0 {
		fmt.Fprintln(s.out, "No top-ups found for that category.")
		return cancelled(ReasonNoTopUps), nil
	}

	fmt.Fprintf(s.out, "\nChoose a TopUp for %s:\n", category)
	s.printMenu(topups)
	choice, err = s.prompt.AskBoundedInt("Enter top-up number: ", 1, len(topups))
	if err != nil {
		return inputError(err)
	}
	topup := topups[choice-1]

	// Confirm
	record, ok := s.catalog.Details(category, topup)
	if !ok {
		log.Error().
			Str("category", category).
			Str("topup", topup).
			Msg("Listed top-up has no matching catalog row")
		fmt.Fprintln(s.out, "Could not find details for that selection.")
		outcome := cancelled(ReasonDetailsMissing)
		outcome.Inconsistent = true
		return outcome, nil
	}

	purchase := types.PurchaseRecord{
		Category: category,
		TopUp:    topup,
		Price:    record.Price(),
	}

	fmt.Fprintf(s.out, "\nYou selected: %s -> %s\n", purchase.Category, purchase.TopUp)
	fmt.Fprintf(s.out, "Price: %s\n", purchase.Price)

	confirmed, err := s.prompt.AskYesNo("Confirm purchase? (y/n): ")
	if err != nil {
		return inputError(err)
	}
	if !confirmed {
		fmt.Fprintln(s.out, "Purchase cancelled.")
		return cancelled(ReasonDeclined), nil
	}

	fmt.Fprintln(s.out, "Ticket purchase successful.")
	log.Info().
		Str("category", purchase.Category).
		Str("topup", purchase.TopUp).
		Str("price", purchase.Price).
		Msg("Purchase confirmed")

	return Outcome{State: Completed, Purchase: &purchase}, nil
}

// Repeat runs sessions until the user declines to buy another ticket or the
// prompt channel stops answering. It returns prior followed by every completed
// purchase, in order. prior itself is never modified.
//
// A channel error ends shopping: purchases completed so far are kept so the
// caller can still summarize and save them. A closed input is the normal way
// out; any other error is logged.
func (s *Session) Repeat(prior []types.PurchaseRecord) []types.PurchaseRecord {
	purchases := make([]types.PurchaseRecord, len(prior), len(prior)+1)
	copy(purchases, prior)

	for {
		outcome, err := s.Run()
		if err != nil {
			s.stopShopping(err)
			return purchases
		}

		if outcome.State == Completed && outcome.Purchase != nil {
			purchases = append(purchases, *outcome.Purchase)
		} else {
			log.Debug().
				Str("reason", outcome.Reason).
				Bool("inconsistent", outcome.Inconsistent).
				Msg("Session cancelled")
		}

		again, err := s.prompt.AskYesNo("\nBuy another ticket? (y/n): ")
		if err != nil {
			s.stopShopping(err)
			return purchases
		}
		if !again {
			return purchases
		}
	}
}

// stopShopping reports why the prompt channel stopped answering.
func (s *Session) stopShopping(err error) {
	if errors.Is(err, prompt.ErrInputClosed) {
		log.Debug().Msg("Input closed, no more sessions")
		return
	}
	log.Error().Err(err).Msg("Reading input failed, no more sessions")
	fmt.Fprintf(s.out, "Could not read input (%v), finishing up.\n", err)
}

func (s *Session) printMenu(items []string) {
	for i, item := range items {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, item)
	}
}

func inputError(err error) (Outcome, error) {
	if errors.Is(err, prompt.ErrInputClosed) {
		return cancelled(ReasonInputClosed), err
	}
	return cancelled(ReasonInputFailed), err
}

func cancelled(reason string) Outcome {
	return Outcome{State: Cancelled, Reason: reason}
}
