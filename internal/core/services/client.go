package services

// Client bundles the resource services of one session.
type Client struct {
	Session     *Session
	WorkSpaces  *WorkSpaceService
	Experiments *ExperimentService
	Deployments *DeploymentService
	Serving     *ServingService
	Models      *ModelService
}

func NewClient(session *Session) *Client {
	workspaces := NewWorkSpaceService(session)
	experiments := NewExperimentService(session, workspaces)
	deployments := NewDeploymentService(session)
	serving := NewServingService(session)
	models := NewModelService(session, experiments, deployments, serving)

	return &Client{
		Session:     session,
		WorkSpaces:  workspaces,
		Experiments: experiments,
		Deployments: deployments,
		Serving:     serving,
		Models:      models,
	}
}
