package webgpu

// WGSL compute shaders for the kernel-matrix operator.
// Using string constants instead of embed for simplicity.

// symmPackedShader computes C = alpha*A*B + beta*C where A is a symmetric
// matrix of order n stored as a packed upper triangle and B, C hold one
// right-hand side per row.
const symmPackedShader = `
@group(0) @binding(0) var<storage, read> k_upper: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> c: array<f32>;

struct Params {
    n: u32,        // order of the symmetric matrix
    num_rhs: u32,  // number of right-hand sides (rows of B and C)
    alpha: f32,
    beta: f32,
}
@group(0) @binding(3) var<uniform> params: Params;

// Index into the packed upper triangle for row <= col.
fn upper_index(row: u32, col: u32, n: u32) -> u32 {
    return row * (2u * n - row + 1u) / 2u + (col - row);
}

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let col = global_id.x;  // system row index
    let rhs = global_id.y;  // right-hand side index

    if (col >= params.n || rhs >= params.num_rhs) {
        return;
    }

    var sum: f32 = 0.0;
    for (var k: u32 = 0u; k < params.n; k = k + 1u) {
        var a: f32;
        if (col <= k) {
            a = k_upper[upper_index(col, k, params.n)];
        } else {
            a = k_upper[upper_index(k, col, params.n)];
        }
        sum = sum + a * b[rhs * params.n + k];
    }

    let idx = rhs * params.n + col;
    c[idx] = params.alpha * sum + params.beta * c[idx];
}
`
