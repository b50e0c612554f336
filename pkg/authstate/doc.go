// Package authstate owns the console's authentication state: who is
// signed in, with which permissions, and whether the boot-time session
// restore has resolved yet. The state is mutated only by Login, Logout
// and Restore; everything else reads it, most importantly the guard on
// every navigation.
//
// The provider also reacts to authentication rejections from the
// gateway: register ErrorHook on the gateway client and a stale-token
// 401 anywhere tears the session down, flipping the state so the next
// guard evaluation redirects to login. The gateway itself never
// redirects; it only classifies.
package authstate
