package llm

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultAzureAPIVersion is used when no api-version is configured.
const DefaultAzureAPIVersion = "2024-08-01-preview"

// deploymentEnvVars lists the environment variables that may carry the
// Azure deployment name, in lookup order.
var deploymentEnvVars = []string{
	"K30_AZURE_OPENAI_DEPLOYMENT",
	"AZURE_OPENAI_DEPLOYMENT",
	"AZURE_OPENAI_DEPLOYMENT_NAME",
	"AZURE_OPENAI_CHAT_DEPLOYMENT",
}

// EndpointInput is the raw configuration an Endpoint is resolved from.
type EndpointInput struct {
	Endpoint   string
	Deployment string
	APIVersion string
}

// Endpoint is a fully resolved chat-completions target.
type Endpoint struct {
	// CompletionURL is the absolute URL chat requests are posted to,
	// including the api-version query parameter.
	CompletionURL string

	// BaseURL is the resource root (scheme + host, no /openai suffix).
	BaseURL string

	Deployment string
	APIVersion string
}

// endpointResolver attempts to build an Endpoint. ok is false when the
// resolver does not apply to the input; err is set when it applies but the
// input is unusable.
type endpointResolver func(u *url.URL, in EndpointInput) (ep Endpoint, ok bool, err error)

// endpointResolvers are tried in order; the first one that applies wins.
var endpointResolvers = []endpointResolver{
	resolveFullURL,
	resolveBaseResource,
}

// ResolveEndpoint turns a configured endpoint into the concrete
// chat-completions URL. It performs no I/O.
func ResolveEndpoint(in EndpointInput) (Endpoint, error) {
	raw := strings.TrimSpace(in.Endpoint)
	if raw == "" {
		return Endpoint{}, &ErrConfiguration{Field: "endpoint", Err: errors.New("endpoint is not set")}
	}
	if in.APIVersion == "" {
		in.APIVersion = DefaultAzureAPIVersion
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Endpoint{}, &ErrConfiguration{Field: "endpoint", Err: fmt.Errorf("malformed endpoint %q", raw)}
	}

	for _, resolve := range endpointResolvers {
		ep, ok, err := resolve(u, in)
		if err != nil {
			return Endpoint{}, err
		}
		if ok {
			return ep, nil
		}
	}
	return Endpoint{}, &ErrConfiguration{Field: "endpoint", Err: fmt.Errorf("no resolver accepted %q", raw)}
}

// resolveFullURL handles endpoints that already name a deployment, e.g.
// https://x.openai.azure.com/openai/deployments/gpt4o/chat/completions?api-version=2023-05-15
func resolveFullURL(u *url.URL, in EndpointInput) (Endpoint, bool, error) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i := 0; i+2 < len(segments); i++ {
		if segments[i] == "openai" && segments[i+1] == "deployments" && segments[i+2] != "" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Endpoint{}, false, nil
	}

	deployment := segments[idx+2]
	prefix := strings.Join(segments[:idx], "/")

	base := url.URL{Scheme: u.Scheme, Host: u.Host}
	if prefix != "" {
		base.Path = "/" + prefix
	}

	return buildEndpoint(base, deployment, in.APIVersion), true, nil
}

// resolveBaseResource handles bare resource URLs, which need the deployment
// name from configuration.
func resolveBaseResource(u *url.URL, in EndpointInput) (Endpoint, bool, error) {
	deployment := strings.TrimSpace(in.Deployment)
	if deployment == "" {
		return Endpoint{}, true, &ErrConfiguration{
			Field: "deployment",
			Err:   fmt.Errorf("endpoint %q has no deployment path and none of %s is set", u.String(), strings.Join(deploymentEnvVars, ", ")),
		}
	}

	base := url.URL{Scheme: u.Scheme, Host: u.Host}
	path := strings.TrimRight(u.Path, "/")
	path = strings.TrimSuffix(path, "/openai")
	if path != "" {
		base.Path = path
	}

	return buildEndpoint(base, deployment, in.APIVersion), true, nil
}

func buildEndpoint(base url.URL, deployment, apiVersion string) Endpoint {
	completion := base
	completion.Path = strings.TrimRight(base.Path, "/") + "/openai/deployments/" + deployment + "/chat/completions"
	q := url.Values{}
	q.Set("api-version", apiVersion)
	completion.RawQuery = q.Encode()

	return Endpoint{
		CompletionURL: completion.String(),
		BaseURL:       base.String(),
		Deployment:    deployment,
		APIVersion:    apiVersion,
	}
}

// deploymentFromEnv returns the first non-empty deployment variable.
func deploymentFromEnv(getenv func(string) string) string {
	for _, name := range deploymentEnvVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
