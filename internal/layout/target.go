package layout

// Target describes the ABI target triple and its pointer/frame properties.
//
// Only x86_64-linux-gnu (System V) is implemented.
type Target struct {
	Triple     string // e.g. "x86_64-linux-gnu"
	PtrSize    int    // bytes
	PtrAlign   int    // bytes
	FrameAlign int    // stack pointer alignment at call boundaries
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:     "x86_64-linux-gnu",
		PtrSize:    8,
		PtrAlign:   8,
		FrameAlign: 16,
	}
}
