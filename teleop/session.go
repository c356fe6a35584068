package teleop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/edwinhayes/zteleop/cdr"
	"github.com/edwinhayes/zteleop/msgs/irobot_create_msgs"
	"github.com/edwinhayes/zteleop/msgs/sensor_msgs"
	"github.com/edwinhayes/zteleop/ros"
)

// Topic names, relative to the robot namespace.
const (
	CmdVelTopic       = "cmd_vel"
	BatteryStateTopic = "battery_state"
	CameraTopic       = "oakd/rgb/preview/image_raw"
	AudioTopic        = "cmd_audio"
	DockGoalTopic     = "dock/_action/send_goal"
)

// ErrSessionStarted is returned by a second call to Start.
var ErrSessionStarted = errors.New("session already started")

// SessionOption configures NewSession.
type SessionOption func(*Session)

// WithBatteryHandler is called with the charge level, in whole percent,
// for every battery state received.
func WithBatteryHandler(f func(percent int, state *sensor_msgs.BatteryState)) SessionOption {
	return func(s *Session) {
		s.onBattery = f
	}
}

// WithImageHandler is called for every camera frame. Frames are only
// subscribed to when the config enables the camera.
func WithImageHandler(f func(*sensor_msgs.Image)) SessionOption {
	return func(s *Session) {
		s.onImage = f
	}
}

func WithSessionLogger(logger *logrus.Entry) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithCommandErrorHandler is told about every velocity command that could
// not be published.
func WithCommandErrorHandler(f func(error)) SessionOption {
	return func(s *Session) {
		s.onCommandError = f
	}
}

// Session connects a Controller and the robot's auxiliary topics to one
// transport. All topics live under Config.Namespace.
type Session struct {
	config    Config
	transport ros.Transport
	resolver  *ros.TopicResolver
	logger    *logrus.Entry

	controller *Controller
	audio      *ros.Publisher
	dock       *ros.Publisher

	onBattery      func(int, *sensor_msgs.BatteryState)
	onImage        func(*sensor_msgs.Image)
	onCommandError func(error)

	battery atomic.Int64

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	subs    []*ros.Subscriber
	wg      sync.WaitGroup
	runErr  error
}

func NewSession(transport ros.Transport, config Config, opts ...SessionOption) (*Session, error) {
	s := &Session{
		config:    config,
		transport: transport,
	}
	s.battery.Store(-1)
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = ros.NewLogger("session")
	}
	s.logger = s.logger.WithField("namespace", config.Namespace)

	resolver, err := ros.NewTopicResolver(config.Namespace, config.Remap)
	if err != nil {
		return nil, errors.Wrap(err, "session")
	}
	s.resolver = resolver

	cmdVel, err := s.publisher(CmdVelTopic)
	if err != nil {
		return nil, err
	}
	if s.audio, err = s.publisher(AudioTopic); err != nil {
		return nil, err
	}
	if s.dock, err = s.publisher(DockGoalTopic); err != nil {
		return nil, err
	}

	controllerOpts := []ControllerOption{
		WithPeriod(config.Period),
		WithIdleLimit(config.IdleTicks),
		WithControllerLogger(s.logger),
	}
	if s.onCommandError != nil {
		controllerOpts = append(controllerOpts, OnPublishError(s.onCommandError))
	}
	s.controller = NewController(cmdVel, controllerOpts...)
	s.controller.SetScales(config.LinearScale, config.AngularScale)
	return s, nil
}

func (s *Session) publisher(name string) (*ros.Publisher, error) {
	topic, err := s.resolver.Resolve(name)
	if err != nil {
		return nil, errors.Wrapf(err, "topic %s", name)
	}
	return ros.NewPublisher(s.transport, topic, s.logger), nil
}

// Controller returns the velocity controller. Press and SetScales may be
// used before and after Start.
func (s *Session) Controller() *Controller {
	return s.controller
}

// Battery returns the last reported charge level in whole percent, or
// false if none has arrived yet.
func (s *Session) Battery() (int, bool) {
	v := s.battery.Load()
	return int(v), v >= 0
}

// Start subscribes to the robot's state topics and starts the publish
// loop. The session runs until ctx is done or Close is called.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrSessionStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	subOpts := []ros.SubscriberOption{ros.WithLogger(s.logger)}
	if s.config.StrictDecoding {
		subOpts = append(subOpts, ros.WithDecodeOptions(cdr.Strict()))
	}

	topic, err := s.resolver.Resolve(BatteryStateTopic)
	if err != nil {
		cancel()
		return errors.Wrap(err, "battery topic")
	}
	sub, err := ros.Subscribe(ctx, s.transport, topic, s.handleBattery, subOpts...)
	if err != nil {
		cancel()
		return errors.Wrap(err, "battery subscription")
	}
	s.subs = append(s.subs, sub)

	if s.config.Camera {
		topic, err := s.resolver.Resolve(CameraTopic)
		if err == nil {
			sub, err = ros.Subscribe(ctx, s.transport, topic, s.handleImage, subOpts...)
		}
		if err != nil {
			cancel()
			s.shutdownSubscribers()
			return errors.Wrap(err, "camera subscription")
		}
		s.subs = append(s.subs, sub)
	}

	s.cancel = cancel
	s.started = true
	s.runErr = nil
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.controller.Run(ctx)
		s.mu.Lock()
		s.runErr = err
		s.mu.Unlock()
	}()
	s.logger.Info("session started")
	return nil
}

func (s *Session) handleBattery(state *sensor_msgs.BatteryState) {
	percent := state.PercentageInt()
	s.battery.Store(int64(percent))
	s.logger.Debugf("battery %d%%", percent)
	if s.onBattery != nil {
		s.onBattery(percent, state)
	}
}

func (s *Session) handleImage(img *sensor_msgs.Image) {
	s.logger.Debugf("camera frame %dx%d %s", img.Width, img.Height, img.Encoding)
	if s.onImage != nil {
		s.onImage(img)
	}
}

func (s *Session) shutdownSubscribers() {
	for _, sub := range s.subs {
		sub.Shutdown()
	}
	s.subs = nil
}

// PlaySound asks the robot to play a short two-tone chirp.
func (s *Session) PlaySound() error {
	msg := irobot_create_msgs.AudioNoteVector{
		Notes: []irobot_create_msgs.AudioNote{
			irobot_create_msgs.NewAudioNote(369, 355*time.Millisecond),
			irobot_create_msgs.NewAudioNote(300, 533*time.Millisecond),
		},
	}
	if err := s.audio.Publish(&msg); err != nil {
		return errors.Wrap(err, "play sound")
	}
	return nil
}

// Dock sends a dock goal and returns its id.
func (s *Session) Dock() (uuid.UUID, error) {
	msg := irobot_create_msgs.NewDockSendGoalRequest()
	if err := s.dock.Publish(&msg); err != nil {
		return uuid.Nil, errors.Wrap(err, "dock")
	}
	s.logger.Infof("dock goal %s sent", msg.GoalID)
	return msg.GoalID, nil
}

// Close stops the publish loop and the subscriptions and waits for them.
// It returns the error of the final stop command, if any.
func (s *Session) Close() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownSubscribers()
	s.started = false
	s.logger.Info("session closed")
	return s.runErr
}
