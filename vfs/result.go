package vfs

// Result is the audio engine's outcome vocabulary for file callbacks. Host
// I/O errors never cross the bridge; they are collapsed into one of these.
type Result int

const (
	ResultSuccess Result = iota
	ResultInvalidArgs
	ResultDoesNotExist
	ResultEndOfStream
	ResultIOError
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultInvalidArgs:
		return "invalid args"
	case ResultDoesNotExist:
		return "does not exist"
	case ResultEndOfStream:
		return "end of stream"
	case ResultIOError:
		return "i/o error"
	}
	return "unknown"
}

// Mode is the access mode requested by the engine on Open.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// Origin is the reference point of a Seek.
type Origin int

const (
	OriginStart Origin = iota
	OriginCurrent
	OriginEnd
)
