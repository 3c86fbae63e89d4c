package models

// inj:assign({"table":"users"})
// inj:begin
// inj:assign({"type":"User","fields":[{"name":"ID","type":"int64"},{"name":"Email","type":"string"}]})
// inj:emit("model")
// inj:end
// inj:end

// inj:begin
// inj:merge({"type":"Account","fields":[{"name":"ID","type":"int64"}]})
// inj:emit("model", {"readonly": true})
// inj:end
// inj:end
