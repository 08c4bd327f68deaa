package slack

import (
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
)

// CommandTask is a verified slash command from an installed workspace, waiting to be executed by a worker
type CommandTask struct {
	ID          string
	Command     slackapi.SlashCommand
	ReceivedAt  time.Time
	SpanContext opentracing.SpanContext
}

// Dispatcher hands enqueued command tasks to idle workers
type Dispatcher interface {
	Run()
	Enqueue(task CommandTask) (accepted bool)
}

// NewDispatcher returns a Dispatcher with a buffered task channel consumed by config.MaxWorkers workers
func NewDispatcher(stopChannel <-chan struct{}, waitGroup *sync.WaitGroup, config *api.SlackConfig, service Service, slackapiClient slackapi.Client) Dispatcher {
	return &dispatcher{
		waitGroup:      waitGroup,
		stopChannel:    stopChannel,
		workerPool:     make(chan chan CommandTask, config.MaxWorkers),
		maxWorkers:     config.MaxWorkers,
		commandTimeout: config.CommandTimeout,
		tasksChannel:   make(chan CommandTask, config.EventChannelBufferSize),
		service:        service,
		slackapiClient: slackapiClient,
	}
}

type dispatcher struct {
	waitGroup      *sync.WaitGroup
	stopChannel    <-chan struct{}
	workerPool     chan chan CommandTask
	maxWorkers     int
	commandTimeout time.Duration
	tasksChannel   chan CommandTask
	service        Service
	slackapiClient slackapi.Client
}

// Run starts the workers and the dispatch loop; both stop once the stop channel is closed
func (d *dispatcher) Run() {
	for i := 0; i < d.maxWorkers; i++ {
		worker := NewWorker(d.stopChannel, d.waitGroup, d.workerPool, d.commandTimeout, d.service, d.slackapiClient)
		worker.ListenToTaskChannel()
	}

	go d.dispatch()
}

// Enqueue never blocks; it returns false when the task channel is full
func (d *dispatcher) Enqueue(task CommandTask) bool {
	select {
	case d.tasksChannel <- task:
		return true
	default:
		return false
	}
}

func (d *dispatcher) dispatch() {
	for {
		select {
		case task := <-d.tasksChannel:
			// wait for an idle worker, tasks queue up in the buffered channel meanwhile
			select {
			case taskChannel := <-d.workerPool:
				select {
				case taskChannel <- task:
				case <-d.stopChannel:
					return
				}
			case <-d.stopChannel:
				return
			}
		case <-d.stopChannel:
			return
		}
	}
}
