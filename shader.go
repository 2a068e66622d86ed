package gdev

// ShaderStage is the pipeline stage a shader runs in.
type ShaderStage int

// Shader stages.
const (
	ShaderStageVertex ShaderStage = iota
	ShaderStagePixel
)

// String returns the stage name.
func (s ShaderStage) String() string {
	if s == ShaderStageVertex {
		return "Vertex"
	}
	return "Pixel"
}

// Shader is a compiled vertex or pixel shader. Shaders are not volatile:
// the native device keeps them across resets.
type Shader struct {
	device *Device
	stage  ShaderStage
	code   []byte
	native NativeShader
}

// Stage returns the pipeline stage.
func (s *Shader) Stage() ShaderStage { return s.stage }

// Code returns the byte code the shader was created from.
func (s *Shader) Code() []byte { return s.code }

// Native returns the native shader.
func (s *Shader) Native() NativeShader { return s.native }

func (s *Shader) nativeShader() NativeShader {
	if s == nil || s.native == nil {
		return nil
	}
	return s.native
}

// Destroy releases the native shader.
func (s *Shader) Destroy() {
	if s.native == nil {
		return
	}
	if d := s.device; d != nil {
		if d.vertexShader == s {
			d.vertexShader = nil
		}
		if d.pixelShader == s {
			d.pixelShader = nil
		}
	}
	s.native.Release()
	s.native = nil
}
