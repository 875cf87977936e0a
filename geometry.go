package main

import "math"

const (
	WallRestitution   = 0.8  // ball velocity kept after wall/boundary bounce
	BallBounceForce   = 0.7  // restitution of ball-player impulse
	BallPushForce     = 0.3  // share of player velocity transferred on push
	PlayerTouchDamp   = 0.7  // player velocity kept after pushing the ball
	PlayerBumpDamp    = 0.95 // velocity kept after a player-player bump
	PlayerKickback    = 0.2  // share of ball impulse reflected onto the player
	separationBuffer  = 1.0  // push-out margin, prevents re-triggering next tick
)

// Body is the minimal moving-circle state the collision kernel operates on.
// Player and Ball embed it.
type Body struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
}

// ResolveCircleRect resolves a circle overlapping an axis-aligned rectangle.
// Resolution happens along the axis of smaller penetration only, which keeps
// fast entities from tunneling out at wall corners. The velocity component on
// the resolved axis is reflected scaled by restitution (0 stops it dead).
func ResolveCircleRect(b Body, rect Rect, restitution float64) (Body, bool) {
	if b.X+b.Radius <= rect.X || b.X-b.Radius >= rect.X+rect.Width ||
		b.Y+b.Radius <= rect.Y || b.Y-b.Radius >= rect.Y+rect.Height {
		return b, false
	}

	centerX := rect.X + rect.Width/2
	centerY := rect.Y + rect.Height/2
	dx := b.X - centerX
	dy := b.Y - centerY

	overlapX := (b.Radius + rect.Width/2) - math.Abs(dx)
	overlapY := (b.Radius + rect.Height/2) - math.Abs(dy)

	if overlapX < overlapY {
		if dx > 0 {
			b.X = rect.X + rect.Width + b.Radius + separationBuffer
		} else {
			b.X = rect.X - b.Radius - separationBuffer
		}
		b.VX = -b.VX * restitution
	} else {
		if dy > 0 {
			b.Y = rect.Y + rect.Height + b.Radius + separationBuffer
		} else {
			b.Y = rect.Y - b.Radius - separationBuffer
		}
		b.VY = -b.VY * restitution
	}
	return b, true
}

// ResolveCircleCorner resolves a circle crossing a curved arena corner. The
// collision only triggers inside a thin annulus around the corner radius, so
// entities fully inside or fully outside the arc are untouched. reflect=true
// mirrors the radial velocity component scaled by restitution (the ball);
// reflect=false cancels only an inbound radial component (players).
func ResolveCircleCorner(b Body, c Corner, restitution float64, reflect bool) (Body, bool) {
	dx := b.X - c.X
	dy := b.Y - c.Y
	distance := math.Sqrt(dx*dx + dy*dy)

	if distance >= c.Radius+b.Radius || distance <= c.Radius-b.Radius || distance == 0 {
		return b, false
	}

	dirX := dx / distance
	dirY := dy / distance

	targetDistance := c.Radius + b.Radius + separationBuffer
	b.X = c.X + dirX*targetDistance
	b.Y = c.Y + dirY*targetDistance

	velDotDir := b.VX*dirX + b.VY*dirY
	if reflect {
		b.VX -= 2 * velDotDir * dirX * restitution
		b.VY -= 2 * velDotDir * dirY * restitution
	} else if velDotDir < 0 {
		b.VX -= velDotDir * dirX
		b.VY -= velDotDir * dirY
	}
	return b, true
}

// CircleOverlap reports whether two circles overlap and returns the unit
// normal from a toward b along with the penetration depth. Concentric
// circles report no overlap since they admit no resolution direction.
func CircleOverlap(a, b Body) (nx, ny, depth float64, ok bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	distance := math.Sqrt(dx*dx + dy*dy)
	minDistance := a.Radius + b.Radius
	if distance >= minDistance || distance == 0 {
		return 0, 0, 0, false
	}
	return dx / distance, dy / distance, minDistance - distance, true
}

// ResolvePush separates a player from the ball and transfers momentum the way
// a dribble touch does: the ball gains a fraction of the player's velocity and
// the player is damped. Used when the player's own motion drives the contact.
func ResolvePush(player, ball Body) (Body, Body, bool) {
	nx, ny, depth, ok := CircleOverlap(player, ball)
	if !ok {
		return player, ball, false
	}
	separation := depth / 2
	player.X -= nx * separation
	player.Y -= ny * separation
	ball.X += nx * separation
	ball.Y += ny * separation

	ball.VX += player.VX * BallPushForce
	ball.VY += player.VY * BallPushForce
	player.VX *= PlayerTouchDamp
	player.VY *= PlayerTouchDamp
	return player, ball, true
}

// ResolveBounce separates the ball from a player and applies an impulse along
// the contact normal from their relative velocity, with some energy loss. A
// small share of the impulse kicks back onto the player. Used when the ball's
// own motion drives the contact. The impulse is skipped when the bodies are
// already separating.
func ResolveBounce(ball, player Body) (Body, Body, bool) {
	nx, ny, depth, ok := CircleOverlap(player, ball)
	if !ok {
		return ball, player, false
	}
	separation := depth / 2
	ball.X += nx * separation
	ball.Y += ny * separation
	player.X -= nx * separation
	player.Y -= ny * separation

	relativeVX := ball.VX - player.VX
	relativeVY := ball.VY - player.VY
	relativeNormal := relativeVX*nx + relativeVY*ny
	if relativeNormal > 0 {
		return ball, player, true
	}
	impulse := -relativeNormal * BallBounceForce
	ball.VX += impulse * nx
	ball.VY += impulse * ny
	player.VX -= impulse * PlayerKickback * nx
	player.VY -= impulse * PlayerKickback * ny
	return ball, player, true
}

// ResolveBump separates two players by half the overlap each and damps both.
// No momentum transfer, just a gentle shove apart.
func ResolveBump(a, b Body) (Body, Body, bool) {
	nx, ny, depth, ok := CircleOverlap(b, a)
	if !ok {
		return a, b, false
	}
	separation := depth / 2
	a.X += nx * separation
	a.Y += ny * separation
	b.X -= nx * separation
	b.Y -= ny * separation

	a.VX *= PlayerBumpDamp
	a.VY *= PlayerBumpDamp
	b.VX *= PlayerBumpDamp
	b.VY *= PlayerBumpDamp
	return a, b, true
}
