// Command zteleop drives a robot base from the terminal: w/s/a/d move,
// space or x stops, b beeps, k docks and q quits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/edwinhayes/zteleop/msgs/sensor_msgs"
	"github.com/edwinhayes/zteleop/mqttbus"
	"github.com/edwinhayes/zteleop/ros"
	"github.com/edwinhayes/zteleop/teleop"
)

type options struct {
	configPath string
	namespace  string
	loopback   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "JSON config file")
	flag.StringVar(&opts.namespace, "namespace", "", "robot namespace, overrides the config")
	flag.BoolVar(&opts.loopback, "loopback", false, "use an in-process bus with a simulated battery instead of MQTT")
	flag.Parse()

	logger := ros.NewLogger("zteleop")
	if err := run(logger, opts, os.Stdin, os.Stdout); err != nil {
		logger.WithError(err).Error("zteleop failed")
		os.Exit(1)
	}
}

func run(logger *logrus.Entry, opts options, input io.Reader, output io.Writer) error {
	config := teleop.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if config, err = teleop.LoadConfigFile(opts.configPath); err != nil {
			return err
		}
	}
	if opts.namespace != "" {
		config.Namespace = opts.namespace
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var transport ros.Transport
	if opts.loopback {
		bus := ros.NewLoopback(0)
		defer bus.Close()
		go simulateBattery(ctx, bus, config.Namespace, logger)
		transport = bus
	} else {
		bus, err := mqttbus.Dial(mqttbus.Options{
			Broker:   config.MQTT.Broker,
			ClientID: config.MQTT.ClientID,
			QoS:      config.MQTT.QoS,
			Timeout:  config.MQTT.Timeout,
		}, logger)
		if err != nil {
			return err
		}
		defer bus.Close()
		transport = bus
	}

	var program *tea.Program
	session, err := teleop.NewSession(transport, config,
		teleop.WithSessionLogger(logger),
		teleop.WithBatteryHandler(func(percent int, state *sensor_msgs.BatteryState) {
			if logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
				if data, err := json.Marshal(state); err == nil {
					logger.Debugf("battery state %s", data)
				}
			}
			program.Send(batteryMsg(percent))
		}),
	)
	if err != nil {
		return err
	}

	program = tea.NewProgram(newKeyModel(session, config.Namespace, logger),
		tea.WithInput(input),
		tea.WithOutput(output),
	)
	if err := session.Start(ctx); err != nil {
		return err
	}
	defer session.Close()

	go func() {
		<-ctx.Done()
		program.Quit()
	}()
	_, err = program.Run()
	return err
}

func simulateBattery(ctx context.Context, bus ros.Transport, namespace string, logger *logrus.Entry) {
	resolver, err := ros.NewTopicResolver(namespace, nil)
	if err != nil {
		logger.WithError(err).Error("battery simulator")
		return
	}
	topic, err := resolver.Resolve(teleop.BatteryStateTopic)
	if err != nil {
		logger.WithError(err).Error("battery simulator")
		return
	}
	pub := ros.NewPublisher(bus, topic, logger)
	state := sensor_msgs.BatteryState{
		Percentage:        1,
		PowerSupplyStatus: sensor_msgs.PowerSupplyStatusDischarging,
		Present:           true,
	}
	rate := ros.CycleTime(time.Second)
	for rate.Sleep(ctx) == nil {
		state.Header.Stamp = ros.Now()
		if state.Percentage > 0.01 {
			state.Percentage -= 0.01
		}
		if err := pub.Publish(&state); err != nil {
			logger.WithError(err).Warn("battery simulator")
		}
	}
}
