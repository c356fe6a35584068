// Package teleop drives a robot base from discrete direction events. A
// Controller turns events into a velocity command and republishes it at a
// fixed cadence until the robot has been told to stop for long enough.
package teleop

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edwinhayes/zteleop/msgs/geometry_msgs"
	"github.com/edwinhayes/zteleop/ros"
)

const (
	DefaultPeriod       = 100 * time.Millisecond
	DefaultIdleLimit    = 10
	DefaultLinearScale  = 0.5
	DefaultAngularScale = 0.5
)

// CommandPublisher sends velocity commands. *ros.Publisher implements it.
type CommandPublisher interface {
	Publish(msg ros.Message) error
}

// ControllerOption configures NewController.
type ControllerOption func(*Controller)

// WithPeriod sets the publish cadence.
func WithPeriod(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.period = d
		}
	}
}

// WithIdleLimit sets how many consecutive stop commands are published
// before the controller goes quiet.
func WithIdleLimit(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.idleLimit = n
		}
	}
}

func WithControllerLogger(logger *logrus.Entry) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// OnPublishError registers f to be told about every failed publish. It is
// called from the publish loop without the controller lock held.
func OnPublishError(f func(error)) ControllerOption {
	return func(c *Controller) {
		c.onPublishError = f
	}
}

// Controller holds the current velocity command. Press may be called from
// any goroutine; Tick and Run publish.
type Controller struct {
	pub            CommandPublisher
	period         time.Duration
	idleLimit      int
	logger         *logrus.Entry
	onPublishError func(error)

	mu           sync.Mutex
	cmd          geometry_msgs.Twist
	linearScale  float64
	angularScale float64
	sending      bool
	idle         int
	// presses counts Press calls; Tick uses it to spot a press made while
	// it was publishing.
	presses uint64
}

func NewController(pub CommandPublisher, opts ...ControllerOption) *Controller {
	c := &Controller{
		pub:          pub,
		period:       DefaultPeriod,
		idleLimit:    DefaultIdleLimit,
		linearScale:  DefaultLinearScale,
		angularScale: DefaultAngularScale,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = ros.NewLogger("teleop")
	}
	return c
}

func clampScale(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetScales sets the speed used by later presses. Values are clamped to
// [0, 1]. The command in effect is not rescaled.
func (c *Controller) SetScales(linear, angular float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.linearScale = clampScale(linear)
	c.angularScale = clampScale(angular)
	c.logger.Debugf("linear scale %.2f, angular scale %.2f", c.linearScale, c.angularScale)
}

func (c *Controller) Scales() (linear, angular float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.linearScale, c.angularScale
}

// Press applies a direction event. Forward and Backward set linear.x,
// Left and Right set angular.z, Stop clears both. Any press other than
// Stop starts publishing.
func (c *Controller) Press(d Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presses++
	switch d {
	case Forward:
		c.cmd.Linear.X = c.linearScale
	case Backward:
		c.cmd.Linear.X = -c.linearScale
	case Left:
		c.cmd.Angular.Z = c.angularScale
	case Right:
		c.cmd.Angular.Z = -c.angularScale
	case Stop:
		c.cmd.Linear.X = 0
		c.cmd.Angular.Z = 0
		return
	default:
		c.logger.Warnf("ignoring direction %d", int(d))
		return
	}
	c.sending = true
	c.idle = 0
}

// Command returns a copy of the command in effect.
func (c *Controller) Command() geometry_msgs.Twist {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cmd
}

// Sending reports whether ticks currently publish.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

func (c *Controller) Period() time.Duration {
	return c.period
}

// Tick runs one publish-loop iteration. When sending, it publishes the
// current command and counts consecutive stop commands; the tick that
// reaches the idle limit turns sending off. The publish happens without the
// lock held, and a press made meanwhile leaves the idle state to that
// press. A publish error is returned and reported but still counts as a
// tick.
func (c *Controller) Tick() (published bool, err error) {
	c.mu.Lock()
	if !c.sending {
		c.mu.Unlock()
		return false, nil
	}
	cmd := c.cmd
	presses := c.presses
	c.mu.Unlock()

	err = c.pub.Publish(&cmd)

	c.mu.Lock()
	if c.presses == presses {
		c.countIdle(cmd)
	}
	c.mu.Unlock()
	if err != nil {
		c.reportError(err)
	}
	return true, err
}

func (c *Controller) countIdle(sent geometry_msgs.Twist) {
	if sent.IsStopped() {
		c.idle++
	} else {
		c.idle = 0
	}
	if c.idle >= c.idleLimit {
		c.logger.Debugf("idle for %d ticks, going quiet", c.idle)
		c.sending = false
		c.idle = 0
	}
}

func (c *Controller) reportError(err error) {
	c.logger.WithError(err).Warn("velocity command not published")
	if c.onPublishError != nil {
		c.onPublishError(err)
	}
}

// Run ticks every period until ctx is done. If the controller is still
// sending at that point, one stop command is published so that no moving
// command is left as the last one on the topic; Run returns that publish's
// error, if any.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Debugf("publish loop started, period %s", c.period)
	defer c.logger.Debug("publish loop exit")

	rate := ros.CycleTime(c.period)
	for {
		if err := rate.Sleep(ctx); err != nil {
			return c.halt()
		}
		c.Tick()
	}
}

func (c *Controller) halt() error {
	c.mu.Lock()
	c.cmd = geometry_msgs.Twist{}
	wasSending := c.sending
	c.sending = false
	c.idle = 0
	c.mu.Unlock()
	if !wasSending {
		return nil
	}
	var stop geometry_msgs.Twist
	if err := c.pub.Publish(&stop); err != nil {
		c.logger.WithError(err).Error("final stop command not published")
		return err
	}
	return nil
}
