package signing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/signroom/signroom/engine"
	"github.com/signroom/signroom/log"
	"github.com/signroom/signroom/session"
	"github.com/signroom/signroom/tracker"
)

// Signer is the slice of the signing backend client the controller needs.
type Signer interface {
	Sign(ctx context.Context, pdf, image []byte) ([]byte, error)
	Certificates(ctx context.Context) ([]string, error)
}

// Controller runs the apply-digital-signature flow: export the current
// document, ship it to the signing backend, and hand the signed artifact
// back to the viewer. A failed round leaves the previously loaded document
// untouched; the loading flag clears on every path.
type Controller struct {
	engine  engine.Engine
	client  Signer
	session *session.Session
	tracker *tracker.Tracker
	logger  log.Logger

	// stamp image sent along with every signing request, the fixed logo
	// asset of the original flow.
	stamp []byte

	mu      sync.Mutex
	current *DocumentRef

	now func() time.Time
}

func NewController(eng engine.Engine, client Signer, sess *session.Session, tr *tracker.Tracker, logger log.Logger, stamp []byte) *Controller {
	return &Controller{
		engine:  eng,
		client:  client,
		session: sess,
		tracker: tr,
		logger:  logger,
		stamp:   stamp,
		now:     time.Now,
	}
}

// Apply exports the document, sends it off for signing, loads the signed
// artifact back into the engine and swaps the active document reference,
// releasing the superseded one. The error comes back unwrapped so the
// transport can surface it.
func (c *Controller) Apply(ctx context.Context) (*DocumentRef, error) {
	c.session.SetLoading(true)
	defer c.session.SetLoading(false)

	pdf, err := c.engine.ExportPDF()
	if err != nil {
		return nil, err
	}

	signed, err := c.client.Sign(ctx, pdf, c.stamp)
	if err != nil {
		c.logger.Error("error in digital signing:", err)
		return nil, err
	}

	info, err := c.engine.LoadDocument(signed)
	if err != nil {
		return nil, err
	}
	c.tracker.SetSignaturesInfo(info)

	ref := NewDocumentRef(fmt.Sprintf("signed-%d.pdf", c.now().Unix()), signed)
	c.swap(ref)

	return ref, nil
}

// Certificates returns the CA certificates of the signing backend.
func (c *Controller) Certificates(ctx context.Context) ([]string, error) {
	return c.client.Certificates(ctx)
}

// Current returns the active document reference, nil before the first
// signing round.
func (c *Controller) Current() *DocumentRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Close releases the active document reference.
func (c *Controller) Close() {
	c.swap(nil)
}

func (c *Controller) swap(ref *DocumentRef) {
	c.mu.Lock()
	previous := c.current
	c.current = ref
	c.mu.Unlock()

	if previous != nil {
		previous.Release()
	}
}
