package dialogue

import (
	"context"
	"strings"
	"time"

	"erpchat/internal/domain/catalog"
	"erpchat/internal/domain/transaction"
	"erpchat/pkg/logger"
)

// Submitter performs the side-effecting ERP call for a validated transaction.
// Implemented by the erp package; faked in tests.
type Submitter interface {
	Submit(ctx context.Context, tx *transaction.Transaction) (map[string]any, error)
}

// Reply is the controller's answer to one user utterance.
type Reply struct {
	// Text is the user-facing multi-line message.
	Text string `json:"text"`

	// SubmitAttempted is true when this turn called the ERP submitter.
	SubmitAttempted bool `json:"submitAttempted"`

	// Submitted is true when the ERP accepted the transaction.
	Submitted bool `json:"submitted"`

	// Action is the submitted transaction's action, set iff SubmitAttempted.
	Action transaction.Action `json:"action,omitempty"`

	// Result carries the raw ERP payload of a successful submission.
	Result map[string]any `json:"result,omitempty"`
}

// affirmatives confirm a staged transaction. Anything else cancels;
// there is no reprompt on an ambiguous answer.
var affirmatives = []string{"예", "네", "yes"}

// Controller drives the COLLECTING/CONFIRMING state machine.
// It holds no per-session state: everything session-scoped lives in the
// Session value passed through Step.
type Controller struct {
	classifier *transaction.Classifier
	extractor  *transaction.Extractor
	catalogs   *catalog.Service
	submitter  Submitter
}

// NewController wires the pipeline.
func NewController(
	classifier *transaction.Classifier,
	extractor *transaction.Extractor,
	catalogs *catalog.Service,
	submitter Submitter,
) *Controller {
	return &Controller{
		classifier: classifier,
		extractor:  extractor,
		catalogs:   catalogs,
		submitter:  submitter,
	}
}

// Step advances the dialogue by one user utterance and returns the successor
// session plus the reply. Extraction and validation failures never surface as
// errors; they degrade to conversational messages. Only the submission
// boundary can fail, and that failure is caught here and rendered as an
// error-prefixed message while the session still resets to idle.
func (c *Controller) Step(ctx context.Context, sess Session, text string) (Session, Reply) {
	text = strings.TrimSpace(text)

	if sess.State == StateConfirming {
		return c.stepConfirming(ctx, sess, text)
	}
	return c.stepCollecting(ctx, sess, text)
}

// stepConfirming resolves a yes/no answer for the staged transaction.
func (c *Controller) stepConfirming(ctx context.Context, sess Session, text string) (Session, Reply) {
	if !isAffirmative(text) {
		logger.Info(ctx, "transaction cancelled", "session_id", sess.ID)
		return sess.reset(), Reply{Text: cancelMessage()}
	}

	tx := sess.Tx
	tx.NormalizeDate()

	result, err := c.submitter.Submit(ctx, tx)
	// State resets regardless of submit outcome.
	next := sess.reset()

	if err != nil {
		logger.Error(ctx, "submission failed",
			"session_id", sess.ID,
			"action", tx.Action,
			"error", err,
		)
		return next, Reply{
			Text:            submitFailedMessage(err),
			SubmitAttempted: true,
			Action:          tx.Action,
		}
	}

	logger.Info(ctx, "transaction submitted",
		"session_id", sess.ID,
		"action", tx.Action,
		"product", tx.Product,
		"qty", tx.Qty,
	)
	return next, Reply{
		Text:            submittedMessage(tx),
		SubmitAttempted: true,
		Submitted:       true,
		Action:          tx.Action,
		Result:          result,
	}
}

// stepCollecting runs the classify/extract/validate pipeline on the utterance
// and decides between help, more questions or a confirmation prompt.
func (c *Controller) stepCollecting(ctx context.Context, sess Session, text string) (Session, Reply) {
	action, ok := c.classifier.Classify(text)
	if !ok {
		// A follow-up answer ("5000원에") rarely repeats the intent keyword;
		// inside COLLECTING the staged action carries over.
		if sess.State == StateCollecting && sess.Tx != nil {
			action = sess.Tx.Action
		} else {
			return sess.reset(), Reply{Text: helpMessage()}
		}
	}

	matcher, err := c.catalogs.Matcher()
	if err != nil {
		logger.Error(ctx, "catalog unavailable", "error", err)
		return sess, Reply{Text: catalogUnavailableMessage()}
	}

	tx := c.extractor.Extract(text, action, matcher)

	// Merge into the staged transaction when continuing the same command;
	// a new intent replaces it wholesale.
	if sess.State == StateCollecting && sess.Tx != nil && sess.Tx.Action == action {
		staged := *sess.Tx
		staged.Merge(tx)
		tx = &staged
	}

	res := transaction.Validate(tx)

	sess.Tx = tx
	sess.UpdatedAt = time.Now()

	if !res.IsValid {
		sess.State = StateCollecting
		return sess, Reply{Text: collectingMessage(tx, res)}
	}

	sess.State = StateConfirming
	return sess, Reply{Text: confirmMessage(tx, res)}
}

func isAffirmative(text string) bool {
	lower := strings.ToLower(text)
	for _, a := range affirmatives {
		if strings.Contains(lower, a) {
			return true
		}
	}
	return false
}
