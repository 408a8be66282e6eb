package term

// AlphaEq reports structural equality up to a consistent renaming of bound
// names. Free variables must match by name; binder names only have to
// correspond pairwise.
func AlphaEq(a, b Term) bool {
	return alphaEq(a, b, map[Name]Name{}, map[Name]Name{})
}

// bindPair records a binder correspondence in both directions, returning
// restore closures so shadowed entries survive the sub-walk.
func bindPair(ab, ba map[Name]Name, na, nb Name) func() {
	if na == None && nb == None {
		return func() {}
	}
	if na == None || nb == None {
		return nil
	}
	prevA, okA := ab[na]
	prevB, okB := ba[nb]
	ab[na] = nb
	ba[nb] = na
	return func() {
		if okA {
			ab[na] = prevA
		} else {
			delete(ab, na)
		}
		if okB {
			ba[nb] = prevB
		} else {
			delete(ba, nb)
		}
	}
}

func alphaEq(a, b Term, ab, ba map[Name]Name) bool {
	switch x := a.(type) {
	case *Var:
		y, ok := b.(*Var)
		if !ok {
			return false
		}
		if mapped, bound := ab[x.Name]; bound {
			return mapped == y.Name && ba[y.Name] == x.Name
		}
		if _, bound := ba[y.Name]; bound {
			return false
		}
		return x.Name == y.Name
	case *Dup:
		y, ok := b.(*Dup)
		if !ok || !alphaEq(x.Expr, y.Expr, ab, ba) {
			return false
		}
		restore0 := bindPair(ab, ba, x.Nam0, y.Nam0)
		if restore0 == nil {
			return false
		}
		defer restore0()
		restore1 := bindPair(ab, ba, x.Nam1, y.Nam1)
		if restore1 == nil {
			return false
		}
		defer restore1()
		return alphaEq(x.Body, y.Body, ab, ba)
	case *Lam:
		y, ok := b.(*Lam)
		if !ok {
			return false
		}
		restore := bindPair(ab, ba, x.Name, y.Name)
		if restore == nil {
			return false
		}
		defer restore()
		return alphaEq(x.Body, y.Body, ab, ba)
	case *App:
		y, ok := b.(*App)
		return ok && alphaEq(x.Func, y.Func, ab, ba) && alphaEq(x.Arg, y.Arg, ab, ba)
	case *Ctr:
		y, ok := b.(*Ctr)
		return ok && x.Name == y.Name && alphaEqArgs(x.Args, y.Args, ab, ba)
	case *Fun:
		y, ok := b.(*Fun)
		return ok && x.Name == y.Name && alphaEqArgs(x.Args, y.Args, ab, ba)
	case *Num:
		y, ok := b.(*Num)
		return ok && x.Value.Cmp(y.Value) == 0
	case *Op2:
		y, ok := b.(*Op2)
		return ok && x.Oper == y.Oper &&
			alphaEq(x.Val0, y.Val0, ab, ba) && alphaEq(x.Val1, y.Val1, ab, ba)
	default:
		return false
	}
}

func alphaEqArgs(xs, ys []Term, ab, ba map[Name]Name) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !alphaEq(xs[i], ys[i], ab, ba) {
			return false
		}
	}
	return true
}
