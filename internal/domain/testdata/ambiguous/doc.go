package ambiguous
