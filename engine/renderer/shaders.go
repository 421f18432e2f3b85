package renderer

// gridShaderSource is the WGSL source shared by the solid-fill and wireframe
// pipelines. Both pipelines draw the same shared cube geometry and read their
// per-cube transform and color from an instance storage buffer indexed by the
// instance index; they differ only in primitive topology and blend state.
const gridShaderSource = `
struct Camera {
    view_proj: mat4x4<f32>,
};

struct Instance {
    model: mat4x4<f32>,
    color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var<storage, read> instances: array<Instance>;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(
    @location(0) position: vec3<f32>,
    @builtin(instance_index) instance_index: u32,
) -> VertexOutput {
    let inst = instances[instance_index];
    var out: VertexOutput;
    out.clip_position = camera.view_proj * inst.model * vec4<f32>(position, 1.0);
    out.color = inst.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`
