package pipeline

// Log and progress callbacks may be fired from any worker goroutine. The
// funnel serializes them through one channel drained by one consumer so
// caller-supplied callbacks never run concurrently with themselves.

type eventKind int

const (
	eventLog eventKind = iota
	eventProgress
)

type event struct {
	kind     eventKind
	line     string
	stage    string
	fraction float64
}

type funnel struct {
	ch   chan event
	done chan struct{}
}

func newFunnel(onLog func(string), onProgress func(stage string, fraction float64)) *funnel {
	f := &funnel{
		ch:   make(chan event, 64),
		done: make(chan struct{}),
	}
	go func() {
		defer close(f.done)
		for ev := range f.ch {
			switch ev.kind {
			case eventLog:
				if onLog != nil {
					onLog(ev.line)
				}
			case eventProgress:
				if onProgress != nil {
					onProgress(ev.stage, ev.fraction)
				}
			}
		}
	}()
	return f
}

func (f *funnel) log(line string) {
	f.ch <- event{kind: eventLog, line: line}
}

func (f *funnel) progress(stage string, fraction float64) {
	f.ch <- event{kind: eventProgress, stage: stage, fraction: fraction}
}

// close stops the consumer after every queued event has been delivered.
func (f *funnel) close() {
	close(f.ch)
	<-f.done
}
