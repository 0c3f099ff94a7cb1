package artifacts

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"
)

// ToResponse converts artifacts into a protoc plugin response
func ToResponse(arts []Artifact) *pluginpb.CodeGeneratorResponse {
	resp := &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)),
	}
	for _, a := range arts {
		file := &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(a.Path),
			Content: proto.String(a.Content),
		}
		if !a.IsNewFile() {
			file.InsertionPoint = proto.String(a.InsertionPoint)
		}
		resp.File = append(resp.File, file)
	}
	return resp
}

// ErrorResponse reports a generation failure to protoc
func ErrorResponse(err error) *pluginpb.CodeGeneratorResponse {
	return &pluginpb.CodeGeneratorResponse{
		Error: proto.String(err.Error()),
	}
}
