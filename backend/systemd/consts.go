package systemd

import "time"

const (
	unitPrefix = "dwsh-"
	jobMode    = "fail"
)

// jobTimeout bounds how long a dispatched start job is watched for a result.
var jobTimeout = 5 * time.Second
