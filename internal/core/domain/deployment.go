package domain

import (
	"fmt"

	"model-platform-sdk/internal/api"
)

// Deployment is a named target a model can be published to.
type Deployment struct {
	ID       string
	Name     string
	Slug     string
	Response *api.DeploymentResponse
}

func NewDeployment(name string) *Deployment {
	return &Deployment{Name: name}
}

// DeploymentFromResponse wraps a platform deployment record.
func DeploymentFromResponse(resp *api.DeploymentResponse) *Deployment {
	d := &Deployment{}
	d.MarkRegistered(resp)
	return d
}

func (d *Deployment) Registered() bool {
	return d != nil && d.ID != ""
}

func (d *Deployment) MarkRegistered(resp *api.DeploymentResponse) {
	d.ID = resp.ID
	d.Name = resp.Name
	d.Slug = resp.DeploymentSlug
	d.Response = resp
}

// Serving URI segments.
const (
	URISegmentDefault = "default"
	URISegmentV1      = "v1"
)

// DeploymentURIs returns the two endpoint paths a model is served under inside a
// deployment. They differ only in the last segment.
func DeploymentURIs(deploymentName, modelName string) []string {
	return []string{
		modelURI(deploymentName, modelName, URISegmentDefault),
		modelURI(deploymentName, modelName, URISegmentV1),
	}
}

func modelURI(deploymentName, modelName, segment string) string {
	return fmt.Sprintf("%s/model/%s/%s", deploymentName, modelName, segment)
}
