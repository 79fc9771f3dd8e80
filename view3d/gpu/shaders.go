package gpu

import (
	_ "embed"
)

//go:embed shaders/scene.wgsl
var SceneWGSL string

//go:embed shaders/lines.wgsl
var LinesWGSL string
