package domain

import "fmt"

// Delete operation names carried by DeleteResult.
const (
	OpDeleteModel      = "delete model"
	OpUndeployModel    = "undeploy model"
	OpDeleteWorkSpace  = "delete workspace"
	OpDeleteExperiment = "delete experiment"
	OpDeleteDeployment = "delete deployment"
)

// DeleteResult is the outcome of a remote removal. Removals never return an
// error value; callers decide whether a failed result is fatal.
type DeleteResult struct {
	Op     string
	Target string
	err    error
}

func Deleted(op, target string) DeleteResult {
	return DeleteResult{Op: op, Target: target}
}

func DeleteFailed(op, target string, err error) DeleteResult {
	return DeleteResult{Op: op, Target: target, err: err}
}

func (r DeleteResult) Succeeded() bool {
	return r.err == nil
}

// Reason is the failure cause, nil on success.
func (r DeleteResult) Reason() error {
	return r.err
}

func (r DeleteResult) String() string {
	if r.err != nil {
		return fmt.Sprintf("%s %s: failed: %v", r.Op, r.Target, r.err)
	}
	return fmt.Sprintf("%s %s: ok", r.Op, r.Target)
}
