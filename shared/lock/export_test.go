package lock

const (
	ReleaseScript = releaseScript
	ExtendScript  = extendScript
)
