package slack

import (
	"context"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
)

// Worker executes command tasks and posts the result to the command's response url
type Worker interface {
	ListenToTaskChannel()
}

// NewWorker returns a Worker that registers itself in the worker pool whenever it's idle
func NewWorker(stopChannel <-chan struct{}, waitGroup *sync.WaitGroup, workerPool chan chan CommandTask, commandTimeout time.Duration, service Service, slackapiClient slackapi.Client) Worker {
	return &worker{
		waitGroup:      waitGroup,
		stopChannel:    stopChannel,
		workerPool:     workerPool,
		taskChannel:    make(chan CommandTask),
		commandTimeout: commandTimeout,
		service:        service,
		slackapiClient: slackapiClient,
	}
}

type worker struct {
	waitGroup      *sync.WaitGroup
	stopChannel    <-chan struct{}
	workerPool     chan chan CommandTask
	taskChannel    chan CommandTask
	commandTimeout time.Duration
	service        Service
	slackapiClient slackapi.Client
}

// ListenToTaskChannel holds a slot in the wait group until the stop channel closes, so waiting on it includes any
// in-flight task
func (w *worker) ListenToTaskChannel() {
	w.waitGroup.Add(1)
	go func() {
		defer w.waitGroup.Done()

		log.Debug().Msg("Listening to Slack command task channel...")
		for {
			// register the current worker into the worker queue
			w.workerPool <- w.taskChannel

			select {
			case task := <-w.taskChannel:
				w.handle(task)
			case <-w.stopChannel:
				log.Debug().Msg("Stopping Slack command worker...")
				return
			}
		}
	}()
}

func (w *worker) handle(task CommandTask) {

	// the http request that enqueued the task has long been answered, so the task gets its own deadline
	ctx, cancel := context.WithTimeout(context.Background(), w.commandTimeout)
	defer cancel()

	span := opentracing.StartSpan(api.GetSpanName("slack", "ExecuteCommandTask"), opentracing.FollowsFrom(task.SpanContext))
	span.SetTag("command", task.Command.Command)
	span.SetTag("task.id", task.ID)
	ctx = opentracing.ContextWithSpan(ctx, span)

	message, err := w.service.ExecuteCommand(ctx, task.Command)
	if err != nil {
		log.Error().Err(err).
			Str("taskID", task.ID).
			Str("command", task.Command.Command).
			Str("teamID", task.Command.TeamID).
			Msg("Executing Slack command failed")
	}

	// unknown commands produce no message
	if message.Text == "" {
		api.FinishSpanWithError(span, err)
		return
	}

	postErr := w.slackapiClient.PostResponse(ctx, task.Command.ResponseURL, message)
	if postErr != nil {
		log.Error().Err(postErr).
			Str("taskID", task.ID).
			Str("command", task.Command.Command).
			Msg("Posting Slack command result to response url failed")
		if err == nil {
			err = postErr
		}
	}

	log.Debug().
		Str("taskID", task.ID).
		Str("command", task.Command.Command).
		Dur("latency", time.Since(task.ReceivedAt)).
		Msg("Handled Slack command task")

	api.FinishSpanWithError(span, err)
}
