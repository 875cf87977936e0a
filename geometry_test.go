package main

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolveCircleRectNoOverlap(t *testing.T) {
	b := Body{X: 100, Y: 100, Radius: 15}
	wall := Rect{X: 0, Y: 0, Width: 800, Height: 10}
	out, hit := ResolveCircleRect(b, wall, 0)
	if hit {
		t.Error("body clear of the wall should not collide")
	}
	if out != b {
		t.Error("no-hit resolution should leave the body unchanged")
	}
}

func TestResolveCircleRectSmallerAxis(t *testing.T) {
	// Body overlapping the top wall from below: vertical penetration is the
	// smaller one, so resolution must be vertical even though the horizontal
	// overlap is huge.
	b := Body{X: 100, Y: 15, VX: 3, VY: -2, Radius: 15}
	wall := Rect{X: 0, Y: 0, Width: 800, Height: 10}

	out, hit := ResolveCircleRect(b, wall, 0.8)
	if !hit {
		t.Fatal("expected collision")
	}
	if !almostEqual(out.Y, 26) { // wall bottom + radius + 1 buffer
		t.Errorf("expected Y 26, got %f", out.Y)
	}
	if !almostEqual(out.VY, 1.6) { // -(-2) * 0.8
		t.Errorf("expected VY 1.6, got %f", out.VY)
	}
	if out.VX != 3 {
		t.Errorf("VX on the unresolved axis should be untouched, got %f", out.VX)
	}
}

func TestResolveCircleRectStopsInelastic(t *testing.T) {
	b := Body{X: 100, Y: 15, VY: -2, Radius: 15}
	wall := Rect{X: 0, Y: 0, Width: 800, Height: 10}

	out, hit := ResolveCircleRect(b, wall, 0)
	if !hit {
		t.Fatal("expected collision")
	}
	if out.VY != 0 {
		t.Errorf("zero restitution should stop the body, got VY %f", out.VY)
	}
}

func TestResolveCircleCornerAnnulus(t *testing.T) {
	corner := Corner{X: 50, Y: 50, Radius: 50}

	// Fully inside the arc: distance 30 <= 50-15
	inside := Body{X: 80, Y: 50, Radius: 15}
	if _, hit := ResolveCircleCorner(inside, corner, 0, false); hit {
		t.Error("body fully inside the arc should not collide")
	}

	// Fully outside: distance 70 >= 50+15
	outside := Body{X: 120, Y: 50, Radius: 15}
	if _, hit := ResolveCircleCorner(outside, corner, 0, false); hit {
		t.Error("body fully outside the arc should not collide")
	}

	// Crossing the arc: distance 55
	crossing := Body{X: 105, Y: 50, Radius: 15}
	out, hit := ResolveCircleCorner(crossing, corner, 0, false)
	if !hit {
		t.Fatal("body crossing the arc should collide")
	}
	if !almostEqual(out.X, 116) || !almostEqual(out.Y, 50) {
		t.Errorf("expected push-out to (116,50), got (%f,%f)", out.X, out.Y)
	}
}

func TestResolveCircleCornerPlayerVelocity(t *testing.T) {
	corner := Corner{X: 50, Y: 50, Radius: 50}

	// Moving into the corner: inbound radial component cancelled
	in := Body{X: 105, Y: 50, VX: -3, VY: 1, Radius: 15}
	out, _ := ResolveCircleCorner(in, corner, 0, false)
	if !almostEqual(out.VX, 0) || !almostEqual(out.VY, 1) {
		t.Errorf("expected inbound component cancelled, got (%f,%f)", out.VX, out.VY)
	}

	// Moving away: velocity untouched
	away := Body{X: 105, Y: 50, VX: 3, Radius: 15}
	out, _ = ResolveCircleCorner(away, corner, 0, false)
	if !almostEqual(out.VX, 3) {
		t.Errorf("outbound velocity should be untouched, got %f", out.VX)
	}
}

func TestResolveCircleCornerBallReflection(t *testing.T) {
	corner := Corner{X: 50, Y: 50, Radius: 50}
	ball := Body{X: 105, Y: 50, VX: -3, Radius: 15}

	out, hit := ResolveCircleCorner(ball, corner, WallRestitution, true)
	if !hit {
		t.Fatal("expected collision")
	}
	// v - 2*(v.n)*n*0.8 = -3 - 2*(-3)*0.8 = 1.8
	if !almostEqual(out.VX, 1.8) {
		t.Errorf("expected reflected VX 1.8, got %f", out.VX)
	}
}

func TestCircleOverlap(t *testing.T) {
	a := Body{X: 0, Y: 0, Radius: 15}
	b := Body{X: 20, Y: 0, Radius: 10}

	nx, ny, depth, ok := CircleOverlap(a, b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if !almostEqual(nx, 1) || !almostEqual(ny, 0) {
		t.Errorf("expected normal (1,0), got (%f,%f)", nx, ny)
	}
	if !almostEqual(depth, 5) {
		t.Errorf("expected depth 5, got %f", depth)
	}

	if _, _, _, ok := CircleOverlap(a, Body{X: 30, Y: 0, Radius: 10}); ok {
		t.Error("separated circles should not overlap")
	}
	if _, _, _, ok := CircleOverlap(a, Body{X: 0, Y: 0, Radius: 10}); ok {
		t.Error("concentric circles admit no resolution direction")
	}
}

func TestResolvePushTransfersMomentum(t *testing.T) {
	player := Body{X: 0, Y: 0, VX: 2, Radius: 15}
	ball := Body{X: 20, Y: 0, Radius: 10}

	outPlayer, outBall, hit := ResolvePush(player, ball)
	if !hit {
		t.Fatal("expected contact")
	}
	if !almostEqual(outBall.VX, 0.6) { // 2 * 0.3
		t.Errorf("expected ball VX 0.6, got %f", outBall.VX)
	}
	if !almostEqual(outPlayer.VX, 1.4) { // 2 * 0.7
		t.Errorf("expected player VX 1.4, got %f", outPlayer.VX)
	}
	// Separated by half the 5-unit overlap each
	if !almostEqual(outPlayer.X, -2.5) || !almostEqual(outBall.X, 22.5) {
		t.Errorf("expected separation to (-2.5, 22.5), got (%f, %f)", outPlayer.X, outBall.X)
	}
}

func TestResolveBounceImpulse(t *testing.T) {
	// Ball moving into a stationary player
	ball := Body{X: 20, Y: 0, VX: -4, Radius: 10}
	player := Body{X: 0, Y: 0, Radius: 15}

	outBall, outPlayer, hit := ResolveBounce(ball, player)
	if !hit {
		t.Fatal("expected contact")
	}
	// relative normal velocity -4, impulse 2.8 along (1,0)
	if !almostEqual(outBall.VX, -1.2) { // -4 + 2.8
		t.Errorf("expected ball VX -1.2, got %f", outBall.VX)
	}
	if !almostEqual(outPlayer.VX, -0.56) { // -2.8 * 0.2
		t.Errorf("expected player VX -0.56, got %f", outPlayer.VX)
	}
}

func TestResolveBounceSkipsSeparating(t *testing.T) {
	ball := Body{X: 20, Y: 0, VX: 4, Radius: 10}
	player := Body{X: 0, Y: 0, Radius: 15}

	outBall, _, hit := ResolveBounce(ball, player)
	if !hit {
		t.Fatal("overlapping bodies still count as contact")
	}
	if !almostEqual(outBall.VX, 4) {
		t.Errorf("separating ball should keep its velocity, got %f", outBall.VX)
	}
}

func TestResolveBumpDampsBoth(t *testing.T) {
	a := Body{X: 0, Y: 0, VX: 2, Radius: 15}
	b := Body{X: 20, Y: 0, VX: -2, Radius: 15}

	outA, outB, hit := ResolveBump(a, b)
	if !hit {
		t.Fatal("expected contact")
	}
	if !almostEqual(outA.VX, 1.9) || !almostEqual(outB.VX, -1.9) {
		t.Errorf("expected both damped by 0.95, got %f and %f", outA.VX, outB.VX)
	}
	if !(outA.X < 0 && outB.X > 20) {
		t.Errorf("expected players pushed apart, got %f and %f", outA.X, outB.X)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 || Clamp(-1, 0, 10) != 0 || Clamp(11, 0, 10) != 10 {
		t.Error("Clamp returned wrong bound")
	}
}
