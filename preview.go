package vertexai

// PreviewClient exposes the same model surface against the v1beta1 API
// version, where preview features land first. It shares the parent
// client's project, location, endpoint and token source.
type PreviewClient struct {
	client *Client
}

// GetGenerativeModel constructs a model facade that calls the preview API
// version. Construction performs no network call.
func (p *PreviewClient) GetGenerativeModel(params *ModelParams, opts *RequestOptions) *GenerativeModel {
	preview := *p.client.dispatcher
	preview.apiVersion = previewAPIVersion
	return newGenerativeModel(&preview, params, opts)
}
