package cache

const IncrementScript = incrementScript
